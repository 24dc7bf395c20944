package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/laoman/java-app-monitoring/internal/domain"
)

const (
	stateFileMode = 0644
	stateDirMode  = 0755
)

// Store reads and writes the process state file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted state, or nil when no state file exists or its
// contents cannot be parsed.
func (s *Store) Load() *domain.ProcessState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var st domain.ProcessState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil
	}
	return &st
}

// Save writes the state file, creating the parent directory when needed.
func (s *Store) Save(st *domain.ProcessState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), stateDirMode); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	if err := os.WriteFile(s.path, data, stateFileMode); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// Clear removes the state file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}
