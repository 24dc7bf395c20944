// Package runner implements the timed logging loop executed inside the
// container: it appends one timestamped line per iteration to the log file,
// mirrors it to stdout, and pauses between iterations until the configured
// bound is reached or the context is cancelled.
package runner
