// Package server runs the HTTP transport.
//
// It owns the http.Server lifecycle: startup, signal handling and graceful
// shutdown bounded by the configured timeout. A listener failure stops
// the server immediately and is reported to the caller.
package server
