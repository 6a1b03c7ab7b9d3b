// Package monitor runs a periodic sweep that reports registry and
// audio storage statistics. Sweeps only read: no job is evicted and no
// file is deleted, so restarting the process stays the only way state
// disappears.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"studyhub/internal/model"
	"studyhub/internal/registry"
	"studyhub/internal/tts"
)

// Config controls whether and when the monitor sweeps
type Config struct {
	Enabled      bool
	Schedule     string        // standard 5-field cron expression
	TickInterval time.Duration // how often dueness is checked
}

// QueueStats reports task queue depth; nil when no pool is in use
type QueueStats interface {
	QueueLength() int
}

// Monitor periodically logs a snapshot of the system
type Monitor struct {
	cfg      Config
	registry registry.Registry
	audioDir string
	queue    QueueStats

	schedule cron.Schedule
	nextRun  time.Time
	sweeps   atomic.Int64

	ticker   *time.Ticker
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a monitor. The schedule must be a valid cron expression
// even when the monitor is disabled, so misconfiguration fails early.
func New(cfg Config, reg registry.Registry, audioDir string, queue QueueStats) (*Monitor, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid monitor schedule %q: %w", cfg.Schedule, err)
	}

	return &Monitor{
		cfg:      cfg,
		registry: reg,
		audioDir: audioDir,
		queue:    queue,
		schedule: schedule,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins the sweep loop
func (m *Monitor) Start(ctx context.Context) {
	if !m.cfg.Enabled {
		slog.Info("Monitor is disabled by configuration")
		return
	}

	slog.Info("Starting monitor",
		"schedule", m.cfg.Schedule,
		"tick_interval", m.cfg.TickInterval,
	)

	m.nextRun = m.schedule.Next(time.Now().UTC())
	m.ticker = time.NewTicker(m.cfg.TickInterval)
	m.wg.Add(1)

	go m.run(ctx)
}

// Stop gracefully stops the monitor
func (m *Monitor) Stop(ctx context.Context) {
	if !m.cfg.Enabled {
		return
	}

	slog.Info("Stopping monitor")

	close(m.stopChan)
	if m.ticker != nil {
		m.ticker.Stop()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Monitor stopped")
	case <-ctx.Done():
		slog.Warn("Timeout waiting for monitor to stop")
	}
}

// SweepCount returns how many sweeps have run
func (m *Monitor) SweepCount() int64 {
	return m.sweeps.Load()
}

// run is the main monitor loop
func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	// Sweep immediately on start for a baseline snapshot
	m.Sweep(ctx)

	for {
		select {
		case <-m.ticker.C:
			now := time.Now().UTC()
			if now.Before(m.nextRun) {
				continue
			}
			m.nextRun = m.schedule.Next(now)
			m.Sweep(ctx)
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Sweep logs one snapshot of registry, audio storage and queue state
func (m *Monitor) Sweep(ctx context.Context) {
	sweep := m.sweeps.Add(1)

	counts, err := m.registry.Counts(ctx)
	if err != nil {
		slog.Error("Failed to collect job counts",
			"sweep", sweep,
			"error", err.Error(),
		)
	} else {
		slog.Info("Job registry sweep",
			"sweep", sweep,
			"backend", m.registry.Name(),
			"queued", counts[model.StatusQueued],
			"processing", counts[model.StatusProcessing],
			"done", counts[model.StatusDone],
			"error", counts[model.StatusError],
		)
	}

	files, size, err := m.audioUsage()
	if err != nil {
		slog.Error("Failed to scan audio directory",
			"sweep", sweep,
			"dir", m.audioDir,
			"error", err.Error(),
		)
	} else {
		slog.Info("Audio storage sweep",
			"sweep", sweep,
			"dir", m.audioDir,
			"files", files,
			"bytes", size,
		)
	}

	if m.queue != nil {
		slog.Info("Task queue sweep",
			"sweep", sweep,
			"queued_tasks", m.queue.QueueLength(),
		)
	}
}

// audioUsage counts synthesized audio files and their total size
func (m *Monitor) audioUsage() (int, int64, error) {
	entries, err := os.ReadDir(m.audioDir)
	if err != nil {
		return 0, 0, err
	}

	var files int
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), tts.AudioExtension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files++
		total += info.Size()
	}
	return files, total, nil
}
