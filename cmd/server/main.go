package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub/internal/config"
	"studyhub/internal/genai"
	"studyhub/internal/handler"
	"studyhub/internal/model"
	"studyhub/internal/monitor"
	"studyhub/internal/registry"
	"studyhub/internal/service"
	"studyhub/internal/task"
	"studyhub/internal/tts"
	"studyhub/internal/webhook"
	"studyhub/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting StudyHub Service", "version", version)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The audio directory must exist before the first job completes
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		slog.Error("Failed to create output directory", "dir", cfg.OutputDir, "error", err)
		os.Exit(1)
	}

	// Select the registry backend
	var reg registry.Registry
	if cfg.MongoURI != "" {
		mongoReg, err := registry.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongoReg.Disconnect(context.Background()); err != nil {
				slog.Error("Failed to disconnect from MongoDB", "error", err)
			}
		}()
		reg = mongoReg
	} else {
		reg = registry.NewMemory()
	}
	slog.Info("Registry initialized", "backend", reg.Name())

	// Generation and narration share one HTTP client without an overall
	// deadline, since generation calls can legitimately run long
	httpClient := service.NewHTTPClient(cfg.GenerationTimeout)
	generator := genai.NewClient(genai.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	}, httpClient)
	synthesizer := tts.NewGoogle(tts.Config{
		BaseURL:   cfg.TTSBaseURL,
		Language:  cfg.TTSLanguage,
		OutputDir: cfg.OutputDir,
	}, httpClient)

	// Completion callback dispatcher
	dispatcher := webhook.NewDispatcher(cfg.CallbackTimeout, webhook.BreakerConfig{
		FailureThreshold: cfg.CallbackFailureThreshold,
		SuccessThreshold: cfg.CallbackSuccessThreshold,
		Timeout:          cfg.CallbackBreakerTimeout,
	})

	// Task spawner: one goroutine per job by default, a bounded pool
	// when TASK_WORKERS is set
	var spawner task.Spawner = task.Go{}
	var pool *task.Pool
	var queueStats monitor.QueueStats
	if cfg.TaskWorkers > 0 {
		pool = task.NewPool(cfg.TaskWorkers, cfg.TaskQueueSize)
		pool.Start()
		spawner = pool
		queueStats = pool
		slog.Info("Worker pool started", "workers", cfg.TaskWorkers, "queue_size", cfg.TaskQueueSize)
	}

	// Initialize orchestrator
	orchestrator := service.NewOrchestrator(generator, synthesizer, reg, spawner, dispatcher)

	// Default completion callback for submissions that carry none
	var defaultCallback *model.Callback
	if cfg.CallbackURL != "" {
		defaultCallback = &model.Callback{URL: cfg.CallbackURL}
		if err := defaultCallback.Validate(); err != nil {
			slog.Error("Invalid CALLBACK_URL", "error", err)
			os.Exit(1)
		}
	}

	// Initialize monitor
	mon, err := monitor.New(monitor.Config{
		Enabled:      cfg.MonitorEnabled,
		Schedule:     cfg.MonitorSchedule,
		TickInterval: cfg.MonitorTickInterval,
	}, reg, cfg.OutputDir, queueStats)
	if err != nil {
		slog.Error("Failed to initialize monitor", "error", err)
		os.Exit(1)
	}
	mon.Start(ctx)

	// Initialize handlers
	processHandler := handler.NewProcessHandler(orchestrator, defaultCallback)
	hubHandler := handler.NewHubHandler(reg)
	audioHandler := handler.NewAudioHandler(cfg.OutputDir)
	healthHandler := handler.NewHealthHandler(reg, cfg.OutputDir, version)

	// Create CORS config
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	// Create router
	router := handler.NewRouter(
		processHandler,
		hubHandler,
		audioHandler,
		healthHandler,
		corsConfig,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop accepting new submissions before draining workers
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	mon.Stop(shutdownCtx)

	if pool != nil {
		slog.Info("Stopping worker pool...")
		pool.Stop()
	}

	slog.Info("StudyHub Service stopped")
}
