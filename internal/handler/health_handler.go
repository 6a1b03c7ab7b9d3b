package handler

import (
	"net/http"
	"os"
	"time"

	"studyhub/internal/registry"
)

// HealthHandler handles service health and readiness checks
type HealthHandler struct {
	registry  registry.Registry
	audioDir  string
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(reg registry.Registry, audioDir, version string) *HealthHandler {
	return &HealthHandler{
		registry:  reg,
		audioDir:  audioDir,
		startTime: time.Now(),
		version:   version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	registryStatus := "connected"
	if err := h.registry.Ping(r.Context()); err != nil {
		registryStatus = "disconnected"
	}

	response := map[string]any{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"registry": map[string]string{
			"backend": h.registry.Name(),
			"status":  registryStatus,
		},
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
	}

	writeJSON(w, http.StatusOK, response)
}

// Ready handles GET /ready. The service is ready once the registry answers
// and the audio directory exists, since completed jobs hand out links into it.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	ready := true

	if err := h.registry.Ping(r.Context()); err != nil {
		checks["registry"] = "unavailable: " + err.Error()
		ready = false
	} else {
		checks["registry"] = "ok"
	}

	if info, err := os.Stat(h.audioDir); err != nil || !info.IsDir() {
		checks["audio_dir"] = "missing"
		ready = false
	} else {
		checks["audio_dir"] = "ok"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"ready":     ready,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
