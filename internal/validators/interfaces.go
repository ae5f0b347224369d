// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides input validation for the API request
// payloads.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - ValidationErrors: the accumulated field-level failures, reported to
//     clients as {field, message} pairs.
//
// Usage patterns:
//  1. Inject a Validator into services.
//  2. Call Validate with the request and no fields to check a creation
//     payload completely.
//  3. Call Validate with [Provided] fields to check a partial update.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
