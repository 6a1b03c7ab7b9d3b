package handler

import (
	"errors"
	"net/http"
	"strings"

	"studyhub/internal/model"
	"studyhub/internal/registry"
)

// HubHandler serves job status and results
type HubHandler struct {
	registry registry.Registry
}

// NewHubHandler creates a new hub handler
func NewHubHandler(reg registry.Registry) *HubHandler {
	return &HubHandler{
		registry: reg,
	}
}

// HubResponse is the polling envelope. Result is omitted entirely while
// the job is still queued or processing.
type HubResponse struct {
	Status model.Status `json:"status"`
	Result any          `json:"result,omitempty"`
}

// ResultView is the result shape for a completed job. AudioURL has no
// omitempty so that a job without audio renders an explicit null.
type ResultView struct {
	Summary  string              `json:"summary"`
	Graph    *model.ConceptGraph `json:"graph"`
	Quiz     *model.QuizSet      `json:"quiz"`
	AudioURL *string             `json:"audio_url"`
}

// Hub handles GET /hub/{job_id}
func (h *HubHandler) Hub(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/hub/")
	if jobID == "" {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	job, err := h.registry.Get(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	resp := HubResponse{Status: job.Status}
	switch job.Status {
	case model.StatusDone:
		if job.Result != nil {
			resp.Result = ResultView{
				Summary:  job.Result.Summary,
				Graph:    job.Result.Graph,
				Quiz:     job.Result.Quiz,
				AudioURL: job.Result.AudioURL(),
			}
		}
	case model.StatusError:
		resp.Result = job.Result
	}

	writeJSON(w, http.StatusOK, resp)
}
