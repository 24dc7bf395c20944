package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/laoman/java-app-monitoring/internal/config"
	"github.com/laoman/java-app-monitoring/internal/domain"
	"github.com/laoman/java-app-monitoring/internal/service"
	"github.com/laoman/java-app-monitoring/internal/state"
)

type stubManager struct {
	status     string
	statusErr  error
	appRunning bool
}

func (s *stubManager) BuildImage(ctx context.Context, buildDir string) error { return nil }

func (s *stubManager) Ensure(ctx context.Context, spec domain.LaunchSpec) (string, error) {
	return domain.ActionCreated, nil
}

func (s *stubManager) ExecApp(ctx context.Context, spec domain.LaunchSpec) error { return nil }

func (s *stubManager) AppRunning(ctx context.Context) (bool, error) { return s.appRunning, nil }

func (s *stubManager) StopApp(ctx context.Context) error { return nil }

func (s *stubManager) Status(ctx context.Context) (string, error) { return s.status, s.statusErr }

func (s *stubManager) Remove(ctx context.Context) error { return nil }

func setupServer(t *testing.T, manager domain.ContainerManager) (*httptest.Server, *state.Store) {
	t.Helper()
	cfg := &config.Config{
		DataDir:       t.TempDir(),
		ContainerName: "test-container",
		ImageTag:      "test-image",
		BuildDir:      ".",
	}
	states := state.NewStore(cfg.StatePath())
	monitor := service.NewMonitor(cfg, manager, states)

	mux := http.NewServeMux()
	NewHTTPHandler(monitor).RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, states
}

func TestHandleHealth(t *testing.T) {
	server, _ := setupServer(t, &stubManager{})

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestHandleStatus(t *testing.T) {
	server, states := setupServer(t, &stubManager{status: "running", appRunning: true})

	if err := states.Save(&domain.ProcessState{
		IsRunning:     true,
		ContainerName: "test-container",
		StartTime:     "2026-08-30 12:00:00",
	}); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got domain.RunStatus
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.ContainerStatus != "running" || !got.AppRunning {
		t.Errorf("got %+v, want running container with live app", got)
	}
	if got.State == nil || got.State.ContainerName != "test-container" {
		t.Errorf("state = %+v, want persisted state", got.State)
	}
}

func TestHandleRun(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		active     bool
		wantStatus int
	}{
		{
			name:       "launches a run",
			method:     http.MethodPost,
			body:       `{"message": "Hello", "iterations": 3}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "rejects GET",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "rejects malformed body",
			method:     http.MethodPost,
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "conflicts while a run is active",
			method:     http.MethodPost,
			body:       `{"message": "Hello", "iterations": 3}`,
			active:     true,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, states := setupServer(t, &stubManager{})
			if tt.active {
				if err := states.Save(&domain.ProcessState{IsRunning: true}); err != nil {
					t.Fatal(err)
				}
			}

			req, err := http.NewRequest(tt.method, server.URL+"/api/run", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusOK {
				var got map[string]string
				if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
					t.Fatalf("decoding response: %v", err)
				}
				if got["action"] != domain.ActionCreated {
					t.Errorf("action = %q, want %q", got["action"], domain.ActionCreated)
				}
				if st := states.Load(); st == nil || !st.IsRunning {
					t.Errorf("state after run = %+v, want running", st)
				}
			}
		})
	}
}

func TestHandleStop(t *testing.T) {
	server, states := setupServer(t, &stubManager{})

	resp, err := http.Post(server.URL+"/api/stop", contentTypeJSON, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("stop without run status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	if err := states.Save(&domain.ProcessState{IsRunning: true}); err != nil {
		t.Fatal(err)
	}
	resp, err = http.Post(server.URL+"/api/stop", contentTypeJSON, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("stop status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestHandleContainer(t *testing.T) {
	tests := []struct {
		name       string
		manager    *stubManager
		active     bool
		wantStatus int
	}{
		{
			name:       "removes container",
			manager:    &stubManager{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "conflicts while a run is active",
			manager:    &stubManager{},
			active:     true,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, states := setupServer(t, tt.manager)
			if tt.active {
				if err := states.Save(&domain.ProcessState{IsRunning: true}); err != nil {
					t.Fatal(err)
				}
			}

			req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/container", nil)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestHandleLogs(t *testing.T) {
	server, _ := setupServer(t, &stubManager{})

	resp, err := http.Get(server.URL + "/api/logs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// No state and no log file yet: empty body.
	var buf [64]byte
	n, _ := resp.Body.Read(buf[:])
	if n != 0 {
		t.Errorf("body = %q, want empty", buf[:n])
	}
}
