package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/laoman/java-app-monitoring/internal/config"
	log "github.com/sirupsen/logrus"
)

const timestampLayout = "2006-01-02 15:04:05"

// Runner executes the logging loop. It always terminates cleanly: I/O
// failures are reported and abort the loop, cancellation stops it at the
// next iteration boundary, and the completion line prints on every path.
type Runner struct {
	cfg    config.RunnerConfig
	stdout io.Writer
}

func New(cfg config.RunnerConfig, stdout io.Writer) *Runner {
	return &Runner{
		cfg:    cfg,
		stdout: stdout,
	}
}

// Run prints the startup banner, executes the configured iterations and
// prints the completion line. The log sink is released exactly once.
func (r *Runner) Run(ctx context.Context) {
	fmt.Fprintln(r.stdout, "Starting Java Application...")
	fmt.Fprintf(r.stdout, "Will run for %d iterations.\n", r.cfg.Iterations)

	if err := r.runLoop(ctx); err != nil {
		log.WithFields(log.Fields{
			"path":  r.cfg.LogPath,
			"error": err,
		}).Error("log sink failed")
	}

	fmt.Fprintln(r.stdout, "Application finished.")
}

func (r *Runner) runLoop(ctx context.Context) error {
	s, err := openSink(r.cfg.LogPath)
	if err != nil {
		return err
	}
	defer s.Close()

	for i := 1; i <= r.cfg.Iterations; i++ {
		line := r.formatEntry(i, time.Now())

		if err := s.WriteLine(line); err != nil {
			return err
		}
		fmt.Fprintln(r.stdout, line)

		if !r.pause(ctx) {
			return nil
		}
	}
	return nil
}

func (r *Runner) formatEntry(i int, now time.Time) string {
	return fmt.Sprintf("[%s] Loop %d: %s", now.Format(timestampLayout), i, r.cfg.Message)
}

// pause sleeps for the configured interval. It reports false when the
// context was cancelled before the interval elapsed.
func (r *Runner) pause(ctx context.Context) bool {
	timer := time.NewTimer(r.cfg.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
