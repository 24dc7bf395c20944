// Package handler implements the monitor's HTTP endpoints.
//
// Routes:
//   - GET  /health            liveness check
//   - GET  /api/status        container + runner status as JSON
//   - GET  /api/logs          full log contents as plain text
//   - GET  /api/logs/stream   server-sent log lines as they are appended
//   - POST /api/run           launch a run ({"message": ..., "iterations": ...})
//   - POST /api/stop          kill the active run
//   - DELETE /api/container   remove the managed container
package handler
