package domain

// ProcessState is the persisted record of a launched run. Field names match
// the state files written by the previous generation of the tooling so an
// existing data dir still loads.
type ProcessState struct {
	LogFile       string `json:"log_file"`
	StartTime     string `json:"start_time"`
	IsRunning     bool   `json:"is_running"`
	ContainerName string `json:"container_name"`
}

// RunStatus is the aggregate view served by the status endpoint.
type RunStatus struct {
	ContainerStatus string        `json:"container_status"`
	AppRunning      bool          `json:"app_running"`
	State           *ProcessState `json:"state,omitempty"`
}
