package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/laoman/java-app-monitoring/internal/domain"
	"github.com/laoman/java-app-monitoring/internal/logtail"
	"github.com/laoman/java-app-monitoring/internal/service"
	log "github.com/sirupsen/logrus"
)

const contentTypeJSON = "application/json"

type runRequest struct {
	Message    string `json:"message"`
	Iterations int    `json:"iterations"`
}

type HTTPHandler struct {
	monitor *service.Monitor
}

func NewHTTPHandler(monitor *service.Monitor) *HTTPHandler {
	return &HTTPHandler{monitor: monitor}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/api/status", h.handleStatus)
	mux.HandleFunc("/api/logs", h.handleLogs)
	mux.HandleFunc("/api/logs/stream", h.handleLogStream)
	mux.HandleFunc("/api/run", h.handleRun)
	mux.HandleFunc("/api/stop", h.handleStop)
	mux.HandleFunc("/api/container", h.handleContainer)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *HTTPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.monitor.Status(r.Context())
	if err != nil {
		log.WithField("error", err).Error("failed to resolve run status")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *HTTPHandler) handleLogs(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.monitor.Logs())); err != nil {
		log.WithField("error", err).Error("failed to write log response")
	}
}

func (h *HTTPHandler) handleLogStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	lines, err := logtail.Follow(r.Context(), h.monitor.LogPath())
	if err != nil {
		log.WithField("error", err).Error("failed to follow log file")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for line := range lines {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (h *HTTPHandler) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid method", http.StatusMethodNotAllowed)
		return
	}

	req, err := h.parseRunRequest(r)
	if err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	action, err := h.monitor.Launch(r.Context(), req.Message, req.Iterations)
	if err != nil {
		if errors.Is(err, domain.ErrRunActive) {
			http.Error(w, "Run already active", http.StatusConflict)
			return
		}
		log.WithField("error", err).Error("failed to launch runner")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"action": action})
}

func (h *HTTPHandler) parseRunRequest(r *http.Request) (*runRequest, error) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	var req runRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("unmarshalling json: %w", err)
	}
	return &req, nil
}

func (h *HTTPHandler) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid method", http.StatusMethodNotAllowed)
		return
	}

	if err := h.monitor.Stop(r.Context()); err != nil {
		if errors.Is(err, domain.ErrNoActiveRun) {
			http.Error(w, "No active run", http.StatusConflict)
			return
		}
		log.WithField("error", err).Error("failed to stop runner")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Application stopped"})
}

func (h *HTTPHandler) handleContainer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Invalid method", http.StatusMethodNotAllowed)
		return
	}

	if err := h.monitor.Remove(r.Context()); err != nil {
		switch {
		case errors.Is(err, domain.ErrRunActive):
			http.Error(w, "Run still active", http.StatusConflict)
		case errors.Is(err, domain.ErrContainerNotFound):
			http.Error(w, "Container not found", http.StatusNotFound)
		default:
			log.WithField("error", err).Error("failed to remove container")
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Container removed"})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithField("error", err).Error("failed to encode json response")
	}
}
