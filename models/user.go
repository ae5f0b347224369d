package models

import "time"

// User represents an association member account used for authentication
// and authorization. Credential fields are never serialized.
type User struct {
	// ID is the UUIDv7 identifier of the user.
	ID string `json:"id"`

	Name    string `json:"name"`
	Surname string `json:"surname"`

	// Email is unique across accounts and used as the login identifier.
	Email string `json:"email"`

	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`

	// Role controls access to administrative operations.
	Role Role `json:"role"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// ResetPasswordToken stores the keyed hash of an outstanding
	// password reset token. The raw token is never persisted.
	ResetPasswordToken *string `json:"-"`

	// ResetPasswordExpire is the instant after which the reset token
	// is no longer accepted.
	ResetPasswordExpire *time.Time `json:"-"`

	// Active users may authenticate. Deactivated users are rejected
	// even when presenting an otherwise valid token.
	Active bool `json:"active"`

	RegisteredAt time.Time `json:"registeredAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// FullName returns the display form "Name Surname".
func (u User) FullName() string {
	return u.Name + " " + u.Surname
}

// IsAdmin reports whether the user holds an administrative role.
func (u User) IsAdmin() bool {
	return u.Role.IsAdmin()
}
