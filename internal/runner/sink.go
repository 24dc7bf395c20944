package runner

import (
	"fmt"
	"os"
)

const sinkFileMode = 0644

// sink is the append-mode log file shared between iterations. *os.File
// writes are unbuffered, so each line is visible as soon as WriteLine
// returns.
type sink struct {
	file *os.File
}

func openSink(path string) (*sink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, sinkFileMode)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &sink{file: file}, nil
}

func (s *sink) WriteLine(line string) error {
	if _, err := s.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("writing log line: %w", err)
	}
	return nil
}

func (s *sink) Close() error {
	return s.file.Close()
}
