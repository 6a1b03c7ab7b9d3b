package handler

import (
	"net/http"
	"strings"

	"studyhub/internal/model"
	"studyhub/internal/service"
	"studyhub/pkg/middleware"
)

// ProcessHandler accepts content submissions
type ProcessHandler struct {
	orchestrator    *service.Orchestrator
	defaultCallback *model.Callback
}

// NewProcessHandler creates a new process handler. defaultCallback, when
// non-nil, is attached to submissions that carry no callback_url of
// their own; it must already be validated.
func NewProcessHandler(orchestrator *service.Orchestrator, defaultCallback *model.Callback) *ProcessHandler {
	return &ProcessHandler{
		orchestrator:    orchestrator,
		defaultCallback: defaultCallback,
	}
}

// ProcessResponse is the submission acknowledgement
type ProcessResponse struct {
	JobID string `json:"job_id"`
}

// Process handles POST /process. It validates the form, registers a
// job and schedules processing, answering before any generation work
// starts.
func (h *ProcessHandler) Process(w http.ResponseWriter, r *http.Request) {
	content := r.FormValue("content")
	if strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	// Optional completion callback
	callback := h.defaultCallback
	if callbackURL := strings.TrimSpace(r.FormValue("callback_url")); callbackURL != "" {
		callback = &model.Callback{URL: callbackURL}
		if err := callback.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid callback_url: "+err.Error())
			return
		}
	}

	correlationID := middleware.GetCorrelationID(r.Context())

	jobID, err := h.orchestrator.Submit(r.Context(), content, correlationID, callback)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	writeJSON(w, http.StatusOK, ProcessResponse{JobID: jobID})
}
