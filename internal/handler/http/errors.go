// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrMissingToken is returned by the auth middleware when the request
	// carries neither a bearer token nor a session cookie.
	ErrMissingToken = errors.New("not authorized to access this route")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrMissingFile is returned when a multipart upload has no "file" part.
	ErrMissingFile = errors.New("please upload a file")

	// ErrRouteNotFound is written for unknown routes and unsupported methods.
	ErrRouteNotFound = errors.New("route not found")
)
