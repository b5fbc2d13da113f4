package server

// Server is the lifecycle contract of a transport server. RunServer blocks
// until a stop signal arrives or the listener fails; Shutdown drains open
// connections and releases resources.
type Server interface {
	RunServer()
	Shutdown()
}
