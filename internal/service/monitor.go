package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/laoman/java-app-monitoring/internal/config"
	"github.com/laoman/java-app-monitoring/internal/domain"
	"github.com/laoman/java-app-monitoring/internal/logtail"
	"github.com/laoman/java-app-monitoring/internal/state"
	log "github.com/sirupsen/logrus"
)

const startTimeLayout = "2006-01-02 15:04:05"

// Monitor orchestrates runner executions in the managed container.
type Monitor struct {
	cfg     *config.Config
	manager domain.ContainerManager
	states  *state.Store
}

func NewMonitor(cfg *config.Config, manager domain.ContainerManager, states *state.Store) *Monitor {
	return &Monitor{
		cfg:     cfg,
		manager: manager,
		states:  states,
	}
}

// Launch builds the runner image, brings the container up and starts a run.
// It refuses to start while a previous run is still active.
func (m *Monitor) Launch(ctx context.Context, message string, iterations int) (string, error) {
	if st := m.states.Load(); st != nil && st.IsRunning {
		return "", domain.ErrRunActive
	}

	if err := m.prepareLogFile(); err != nil {
		return "", err
	}

	if err := m.manager.BuildImage(ctx, m.cfg.BuildDir); err != nil {
		return "", err
	}

	spec := domain.LaunchSpec{
		Message:     message,
		Iterations:  iterations,
		HostLogPath: m.cfg.HostLogPath(),
	}

	action, err := m.manager.Ensure(ctx, spec)
	if err != nil {
		return "", err
	}

	if err := m.manager.ExecApp(ctx, spec); err != nil {
		return "", err
	}

	st := &domain.ProcessState{
		LogFile:       m.cfg.HostLogPath(),
		StartTime:     time.Now().Format(startTimeLayout),
		IsRunning:     true,
		ContainerName: m.cfg.ContainerName,
	}
	if err := m.states.Save(st); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"container":  m.cfg.ContainerName,
		"action":     action,
		"iterations": iterations,
	}).Info("runner launched")
	return action, nil
}

// prepareLogFile clears the previous run's host log and recreates it empty
// so the bind mount always has a target.
func (m *Monitor) prepareLogFile() error {
	path := m.cfg.HostLogPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing log file: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	return file.Close()
}

// Stop kills the runner inside the container and clears the run state.
func (m *Monitor) Stop(ctx context.Context) error {
	st := m.states.Load()
	if st == nil || !st.IsRunning {
		return domain.ErrNoActiveRun
	}

	if err := m.manager.StopApp(ctx); err != nil {
		return err
	}
	if err := m.states.Clear(); err != nil {
		return err
	}

	log.WithField("container", st.ContainerName).Info("runner stopped")
	return nil
}

// Status reports the container status, the runner's liveness and the
// persisted run state. A missing container reports an empty status.
func (m *Monitor) Status(ctx context.Context) (*domain.RunStatus, error) {
	status := &domain.RunStatus{State: m.states.Load()}

	containerStatus, err := m.manager.Status(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrContainerNotFound) {
			return status, nil
		}
		return nil, err
	}
	status.ContainerStatus = containerStatus

	if containerStatus == "running" {
		running, err := m.manager.AppRunning(ctx)
		if err != nil {
			return nil, err
		}
		status.AppRunning = running
	}
	return status, nil
}

// Logs returns the full contents of the current run's log file.
func (m *Monitor) Logs() string {
	if st := m.states.Load(); st != nil && st.LogFile != "" {
		return logtail.ReadAll(st.LogFile)
	}
	return logtail.ReadAll(m.cfg.HostLogPath())
}

// LogPath returns the file the monitor streams from.
func (m *Monitor) LogPath() string {
	if st := m.states.Load(); st != nil && st.LogFile != "" {
		return st.LogFile
	}
	return m.cfg.HostLogPath()
}

// Remove force-removes the managed container. It refuses while a run is
// active.
func (m *Monitor) Remove(ctx context.Context) error {
	if st := m.states.Load(); st != nil && st.IsRunning {
		return domain.ErrRunActive
	}
	return m.manager.Remove(ctx)
}

// Refresh reconciles the persisted state with reality: when the container
// is gone or the runner has exited, the run is marked finished and its
// state cleared.
func (m *Monitor) Refresh(ctx context.Context) error {
	st := m.states.Load()
	if st == nil || !st.IsRunning {
		return nil
	}

	containerStatus, err := m.manager.Status(ctx)
	if err != nil && !errors.Is(err, domain.ErrContainerNotFound) {
		return err
	}

	if containerStatus == "running" {
		running, err := m.manager.AppRunning(ctx)
		if err != nil {
			return err
		}
		if running {
			return nil
		}
	}

	log.WithFields(log.Fields{
		"container":        st.ContainerName,
		"container_status": containerStatus,
		"started_at":       st.StartTime,
	}).Info("run finished")
	return m.states.Clear()
}
