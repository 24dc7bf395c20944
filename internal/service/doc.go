// Package service contains the monitor's business logic.
//
// Monitor drives the container manager and the state store: launching a run
// (build, ensure container, exec, persist), stopping it, answering status
// and log queries, and the periodic refresh that notices a finished run and
// clears its state.
package service
