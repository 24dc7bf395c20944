// Package logtail reads and follows the runner's host-side log file.
//
// ReadAll mirrors the behavior expected by the status surface: a log that
// does not exist yet reads as empty. Follow watches the file for appends and
// delivers complete lines as they arrive.
package logtail
