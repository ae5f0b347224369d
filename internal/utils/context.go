// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// HTTP response writing, identifier generation, JWT token generation
// and validation, and other common operations.
package utils

import (
	"context"

	"github.com/seguikro/cotisations/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key used to store the authenticated user in the
// context.
var IdentityCtxKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying the authenticated user.
func WithIdentity(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, user)
}

// GetIdentityFromContext retrieves the authenticated user from the context.
//
// Returns ok == false when the request was not authenticated.
func GetIdentityFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(IdentityCtxKey).(models.User)
	return user, ok
}
