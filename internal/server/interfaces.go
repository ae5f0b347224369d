package server

// Server defines the lifecycle contract of the application server.
type Server interface {
	// RunServer serves requests until SIGINT, SIGTERM or SIGQUIT is
	// received, then shuts down gracefully. It returns early with an error
	// when the listener fails.
	RunServer() error

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
