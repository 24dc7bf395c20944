// Package domain defines the core entities and interfaces for the monitor.
//
// It contains the persisted process state model, the container manager
// contract implemented by the Docker adapter, and the sentinel errors
// shared across services and handlers.
package domain
