package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/genai"
	"studyhub/internal/model"
	"studyhub/internal/registry"
	"studyhub/internal/task"
	"studyhub/internal/tts"
)

// Notifier delivers a completion notice after a job reaches a terminal
// state. Delivery runs after the terminal commit, so a slow or failing
// callback never delays what polling clients see.
type Notifier interface {
	NotifyCompletion(ctx context.Context, callback model.Callback, job model.Job)
}

// Orchestrator runs the pipeline for one submission: three concurrent
// generation calls, normalization, narration of the summary, then a
// single terminal commit into the registry.
type Orchestrator struct {
	generator   genai.Generator
	synthesizer tts.Synthesizer
	registry    registry.Registry
	spawner     task.Spawner
	notifier    Notifier
}

// NewOrchestrator creates a new orchestrator. notifier may be nil when
// completion callbacks are disabled.
func NewOrchestrator(
	generator genai.Generator,
	synthesizer tts.Synthesizer,
	reg registry.Registry,
	spawner task.Spawner,
	notifier Notifier,
) *Orchestrator {
	return &Orchestrator{
		generator:   generator,
		synthesizer: synthesizer,
		registry:    reg,
		spawner:     spawner,
		notifier:    notifier,
	}
}

// Submit registers a new job and schedules its processing without
// blocking the caller. The returned id is immediately pollable.
func (o *Orchestrator) Submit(ctx context.Context, content, correlationID string, callback *model.Callback) (string, error) {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	jobID, err := o.registry.Create(ctx, correlationID)
	if err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}

	slog.Info("Job submitted",
		"job_id", jobID,
		"correlation_id", correlationID,
		"content_length", len(content),
		"has_callback", callback != nil,
	)

	// Processing must outlive the request, so the spawner hands the
	// pipeline its own context rather than the caller's.
	o.spawner.Spawn(func(taskCtx context.Context) {
		o.Process(taskCtx, jobID, content, correlationID, callback)
	})

	return jobID, nil
}

// Process runs the full pipeline for one job and commits exactly one
// terminal state. Every failure inside it, including panics, lands in
// the registry as an error result; nothing propagates to the caller.
func (o *Orchestrator) Process(ctx context.Context, jobID, content, correlationID string, callback *model.Callback) {
	defer func() {
		if r := recover(); r != nil {
			o.fail(ctx, jobID, correlationID, fmt.Sprintf("panic: %v", r))
			o.notify(ctx, jobID, correlationID, callback)
		}
	}()

	start := time.Now()

	if err := o.registry.SetStatus(ctx, jobID, model.StatusProcessing); err != nil {
		slog.Error("Failed to mark job as processing",
			"job_id", jobID,
			"correlation_id", correlationID,
			"error", err.Error(),
		)
		return
	}

	slog.Info("Starting job processing",
		"job_id", jobID,
		"correlation_id", correlationID,
		"content_length", len(content),
	)

	// The three generation calls run concurrently. Narration needs the
	// summary, so it waits for all of them.
	var (
		summaryRes, graphRes, quizRes string

		wg        sync.WaitGroup
		panicOnce sync.Once
		panicVal  any
	)
	generate := func(dst *string, prompt string) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				panicOnce.Do(func() { panicVal = r })
			}
		}()
		*dst = o.generator.Generate(ctx, prompt)
	}
	wg.Add(3)
	go generate(&summaryRes, summaryPrompt(content))
	go generate(&graphRes, graphPrompt(content))
	go generate(&quizRes, quizPrompt(content))
	wg.Wait()

	if panicVal != nil {
		o.fail(ctx, jobID, correlationID, fmt.Sprintf("panic: %v", panicVal))
		o.notify(ctx, jobID, correlationID, callback)
		return
	}

	graph := normalizeGraph(graphRes)
	quiz := normalizeQuiz(quizRes)

	// Narration failure is fatal for the job: unlike generation there
	// is no fallback for it.
	audioPath, err := o.synthesizer.Synthesize(ctx, summaryRes, jobID)
	if err != nil {
		o.fail(ctx, jobID, correlationID, err.Error())
		o.notify(ctx, jobID, correlationID, callback)
		return
	}

	result := &model.Result{
		Summary:   summaryRes,
		Graph:     graph,
		Quiz:      quiz,
		AudioPath: audioPath,
	}
	if err := o.registry.SetResult(ctx, jobID, model.StatusDone, result); err != nil {
		slog.Error("Failed to commit job result",
			"job_id", jobID,
			"correlation_id", correlationID,
			"error", err.Error(),
		)
		return
	}

	slog.Info("Job processing completed",
		"job_id", jobID,
		"correlation_id", correlationID,
		"status", model.StatusDone,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	o.notify(ctx, jobID, correlationID, callback)
}

// fail commits a terminal error result. A commit failure here means an
// earlier terminal commit already won; that one stands.
func (o *Orchestrator) fail(ctx context.Context, jobID, correlationID, message string) {
	if err := o.registry.SetResult(ctx, jobID, model.StatusError, &model.Result{Error: message}); err != nil {
		slog.Error("Failed to commit job error",
			"job_id", jobID,
			"correlation_id", correlationID,
			"error", err.Error(),
		)
		return
	}
	slog.Warn("Job processing failed",
		"job_id", jobID,
		"correlation_id", correlationID,
		"error", message,
	)
}

// notify delivers the completion webhook when a callback was attached
func (o *Orchestrator) notify(ctx context.Context, jobID, correlationID string, callback *model.Callback) {
	if o.notifier == nil || callback == nil {
		return
	}
	job, err := o.registry.Get(ctx, jobID)
	if err != nil {
		slog.Error("Failed to load job for completion notice",
			"job_id", jobID,
			"correlation_id", correlationID,
			"error", err.Error(),
		)
		return
	}
	o.notifier.NotifyCompletion(ctx, *callback, job)
}
