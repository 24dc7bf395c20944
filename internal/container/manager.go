package container

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/docker/docker/api/types"
	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	log "github.com/sirupsen/logrus"

	"github.com/laoman/java-app-monitoring/internal/domain"
)

const (
	containerLogPath = "/app/app.log"
	runnerBinary     = "/app/runner"

	execPollInterval = 100 * time.Millisecond
	execPollTimeout  = 5 * time.Second
)

// Manager is the Docker-backed container manager for a single named
// container.
type Manager struct {
	cli   client.APIClient
	name  string
	image string
}

func NewManager(name, image string) (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &Manager{cli: cli, name: name, image: image}, nil
}

func (m *Manager) BuildImage(ctx context.Context, buildDir string) error {
	buildCtx, err := archive.TarWithOptions(buildDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("preparing build context: %w", err)
	}
	defer buildCtx.Close()

	resp, err := m.cli.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:   []string{m.image},
		Remove: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageBuildFailed, err)
	}
	defer resp.Body.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, io.Discard, 0, false, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImageBuildFailed, err)
	}

	log.WithFields(log.Fields{
		"image": m.image,
		"dir":   buildDir,
	}).Info("runner image built")
	return nil
}

func (m *Manager) Ensure(ctx context.Context, spec domain.LaunchSpec) (string, error) {
	info, err := m.cli.ContainerInspect(ctx, m.name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return m.create(ctx, spec)
		}
		return "", fmt.Errorf("inspecting container: %w", err)
	}

	if info.State != nil && info.State.Running {
		return domain.ActionReused, nil
	}

	if err := m.cli.ContainerStart(ctx, m.name, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("starting container: %w", err)
	}
	return domain.ActionStarted, nil
}

func (m *Manager) create(ctx context.Context, spec domain.LaunchSpec) (string, error) {
	cfg := &containertypes.Config{
		Image: m.image,
		Env:   runEnv(spec),
	}
	hostCfg := &containertypes.HostConfig{
		Binds: []string{spec.HostLogPath + ":" + containerLogPath},
	}

	created, err := m.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, m.name)
	if err != nil {
		return "", fmt.Errorf("creating container: %w", err)
	}

	if err := m.cli.ContainerStart(ctx, created.ID, types.ContainerStartOptions{}); err != nil {
		return "", fmt.Errorf("starting container: %w", err)
	}

	log.WithFields(log.Fields{
		"container": m.name,
		"image":     m.image,
	}).Info("container created")
	return domain.ActionCreated, nil
}

func (m *Manager) ExecApp(ctx context.Context, spec domain.LaunchSpec) error {
	created, err := m.cli.ContainerExecCreate(ctx, m.name, types.ExecConfig{
		Cmd:    []string{runnerBinary},
		Env:    runEnv(spec),
		Detach: true,
	})
	if err != nil {
		return fmt.Errorf("creating exec: %w", err)
	}

	if err := m.cli.ContainerExecStart(ctx, created.ID, types.ExecStartCheck{Detach: true}); err != nil {
		return fmt.Errorf("starting exec: %w", err)
	}
	return nil
}

func (m *Manager) AppRunning(ctx context.Context) (bool, error) {
	exitCode, err := m.execWait(ctx, []string{"pgrep", "-f", runnerBinary})
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return exitCode == 0, nil
}

func (m *Manager) StopApp(ctx context.Context) error {
	created, err := m.cli.ContainerExecCreate(ctx, m.name, types.ExecConfig{
		Cmd:    []string{"pkill", "-9", "runner"},
		Detach: true,
	})
	if err != nil {
		return fmt.Errorf("creating stop exec: %w", err)
	}

	if err := m.cli.ContainerExecStart(ctx, created.ID, types.ExecStartCheck{Detach: true}); err != nil {
		return fmt.Errorf("starting stop exec: %w", err)
	}
	return nil
}

func (m *Manager) Status(ctx context.Context) (string, error) {
	info, err := m.cli.ContainerInspect(ctx, m.name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", domain.ErrContainerNotFound
		}
		return "", fmt.Errorf("inspecting container: %w", err)
	}
	if info.State == nil {
		return "", nil
	}
	return info.State.Status, nil
}

func (m *Manager) Remove(ctx context.Context) error {
	err := m.cli.ContainerRemove(ctx, m.name, types.ContainerRemoveOptions{Force: true})
	if err != nil {
		if client.IsErrNotFound(err) {
			return domain.ErrContainerNotFound
		}
		return fmt.Errorf("removing container: %w", err)
	}
	return nil
}

// execWait runs a command inside the container attached, drains its output
// and returns its exit code.
func (m *Manager) execWait(ctx context.Context, cmd []string) (int, error) {
	created, err := m.cli.ContainerExecCreate(ctx, m.name, types.ExecConfig{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return 0, err
	}

	resp, err := m.cli.ContainerExecAttach(ctx, created.ID, types.ExecStartCheck{})
	if err != nil {
		return 0, fmt.Errorf("attaching exec: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Reader)
	resp.Close()

	deadline := time.Now().Add(execPollTimeout)
	for {
		inspect, err := m.cli.ContainerExecInspect(ctx, created.ID)
		if err != nil {
			return 0, fmt.Errorf("inspecting exec: %w", err)
		}
		if !inspect.Running {
			return inspect.ExitCode, nil
		}
		if time.Now().After(deadline) {
			return 0, fmt.Errorf("exec %v did not finish within %v", cmd, execPollTimeout)
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(execPollInterval):
		}
	}
}

func runEnv(spec domain.LaunchSpec) []string {
	return []string{
		"LOG_MESSAGE=" + spec.Message,
		"ITERATIONS=" + strconv.Itoa(spec.Iterations),
	}
}
