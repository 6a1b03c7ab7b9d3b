package model

import (
	"path/filepath"
	"time"
)

// Status represents the lifecycle state of a job
type Status string

// Job lifecycle states. Transitions move strictly forward:
// queued -> processing -> done | error. Terminal states are absorbing.
const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Terminal reports whether the status is an absorbing end state
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Valid reports whether the status is a known lifecycle state
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusDone, StatusError:
		return true
	}
	return false
}

// Job represents one tracked processing request
type Job struct {
	ID            string    `json:"job_id" bson:"_id"`
	Status        Status    `json:"status" bson:"status"`
	CorrelationID string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Result        *Result   `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// Result is the terminal payload of a job: the generated study artifacts on
// done, an error message on error. It is committed exactly once, together
// with the terminal status; no partial result is ever visible.
type Result struct {
	Summary   string        `json:"summary,omitempty" bson:"summary,omitempty"`
	Graph     *ConceptGraph `json:"graph,omitempty" bson:"graph,omitempty"`
	Quiz      *QuizSet      `json:"quiz,omitempty" bson:"quiz,omitempty"`
	AudioPath string        `json:"audio_path,omitempty" bson:"audio_path,omitempty"`
	Error     string        `json:"error,omitempty" bson:"error,omitempty"`
}

// AudioURL derives the public retrieval path for the stored audio file
// from its base name, or nil when no audio exists.
func (r *Result) AudioURL() *string {
	if r == nil || r.AudioPath == "" {
		return nil
	}
	url := "/audio/" + filepath.Base(r.AudioPath)
	return &url
}

// ConceptGraph is the mind-map structure extracted from the input content.
// Edges reference node ids; referential integrity against the declared nodes
// is not validated (the generative model's output is trusted as-is).
type ConceptGraph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a single concept in the graph
type Node struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
}

// Edge is a directed relation between two concepts
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// QuizSet holds the generated multiple-choice questions and flashcards
type QuizSet struct {
	MCQ        []MCQItem   `json:"mcq" bson:"mcq"`
	Flashcards []Flashcard `json:"flashcards" bson:"flashcards"`
}

// MCQItem is a single multiple-choice question
type MCQItem struct {
	Question string   `json:"question" bson:"question"`
	Options  []string `json:"options" bson:"options"`
	Answer   string   `json:"answer" bson:"answer"`
}

// Flashcard is a single front/back study card
type Flashcard struct {
	Front string `json:"front" bson:"front"`
	Back  string `json:"back" bson:"back"`
}
