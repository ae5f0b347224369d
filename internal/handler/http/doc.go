// Package http implements the REST transport of the dues API.
//
// Requests pass through trace-id, access log, CORS and rate limit
// middleware, then authenticate/authorize where the route requires it,
// before the handler delegates to the service layer. Every response is a
// JSON envelope: models.Response on success, models.ErrorResponse on
// failure.
package http
