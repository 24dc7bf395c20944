package domain

import "context"

// Actions reported by ContainerManager.Ensure.
const (
	ActionReused  = "reused"
	ActionStarted = "started"
	ActionCreated = "created"
)

// LaunchSpec carries the parameters of a single runner execution.
type LaunchSpec struct {
	Message     string
	Iterations  int
	HostLogPath string
}

// ContainerManager drives the persistent container the runner executes in.
type ContainerManager interface {
	// BuildImage builds the runner image from the given build context directory.
	BuildImage(ctx context.Context, buildDir string) error

	// Ensure returns the managed container to a running state, reusing a
	// running one, starting an exited one, or creating a fresh one with the
	// spec's environment and log bind mount. It reports which action it took.
	Ensure(ctx context.Context, spec LaunchSpec) (string, error)

	// ExecApp starts the runner binary inside the container, detached.
	ExecApp(ctx context.Context, spec LaunchSpec) error

	// AppRunning reports whether the runner process is alive in the container.
	AppRunning(ctx context.Context) (bool, error)

	// StopApp kills the runner process inside the container.
	StopApp(ctx context.Context) error

	// Status returns the container status string ("running", "exited", ...).
	// ErrContainerNotFound when the container does not exist.
	Status(ctx context.Context) (string, error)

	// Remove force-removes the container.
	Remove(ctx context.Context) error
}
