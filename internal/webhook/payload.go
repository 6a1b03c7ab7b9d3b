package webhook

import (
	"time"

	"studyhub/internal/model"
)

// CompletionPayload is the JSON body delivered to a callback URL when
// a job reaches a terminal state. Summary and audio_url appear only on
// done, error only on error.
type CompletionPayload struct {
	JobID    string         `json:"job_id"`
	Status   model.Status   `json:"status"`
	Summary  string         `json:"summary,omitempty"`
	AudioURL string         `json:"audio_url,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata"`
}

// FormatCompletionPayload builds the callback body for a terminal job
func FormatCompletionPayload(job model.Job) CompletionPayload {
	payload := CompletionPayload{
		JobID:  job.ID,
		Status: job.Status,
		Metadata: map[string]any{
			"service":        "studyhub",
			"correlation_id": job.CorrelationID,
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		},
	}

	if job.Result == nil {
		return payload
	}

	switch job.Status {
	case model.StatusDone:
		payload.Summary = job.Result.Summary
		if url := job.Result.AudioURL(); url != nil {
			payload.AudioURL = *url
		}
	case model.StatusError:
		payload.Error = job.Result.Error
	}

	return payload
}
