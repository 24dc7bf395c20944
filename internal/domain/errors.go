package domain

import "errors"

var (
	ErrContainerNotFound = errors.New("container not found")
	ErrRunActive         = errors.New("a run is already active")
	ErrNoActiveRun       = errors.New("no active run")
	ErrImageBuildFailed  = errors.New("image build failed")
)
