// Package app provides monitor initialization and lifecycle management.
//
// The App type wires configuration, the Docker container manager, the state
// store, the monitor service and the HTTP server together, runs the
// periodic status poller, and handles signal-driven graceful shutdown.
package app
