package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q, want gemini-2.5-flash", cfg.GeminiModel)
	}
	if cfg.GeminiBaseURL != "https://generativelanguage.googleapis.com" {
		t.Errorf("GeminiBaseURL = %q", cfg.GeminiBaseURL)
	}
	if cfg.GenerationTimeout != 0 {
		t.Errorf("GenerationTimeout = %v, want no deadline", cfg.GenerationTimeout)
	}
	if cfg.OutputDir != "generated" {
		t.Errorf("OutputDir = %q, want generated", cfg.OutputDir)
	}
	if cfg.TTSLanguage != "en" {
		t.Errorf("TTSLanguage = %q, want en", cfg.TTSLanguage)
	}
	if cfg.TaskWorkers != 0 {
		t.Errorf("TaskWorkers = %d, want 0", cfg.TaskWorkers)
	}
	if cfg.MongoURI != "" {
		t.Errorf("MongoURI = %q, want empty for the in-memory registry", cfg.MongoURI)
	}
	if cfg.MonitorSchedule != "*/5 * * * *" {
		t.Errorf("MonitorSchedule = %q", cfg.MonitorSchedule)
	}
	if cfg.CallbackTimeout != 10*time.Second {
		t.Errorf("CallbackTimeout = %v, want 10s", cfg.CallbackTimeout)
	}
	if cfg.CallbackURL != "" {
		t.Errorf("CallbackURL = %q, want no default target", cfg.CallbackURL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-pro")
	t.Setenv("GENERATION_TIMEOUT_SEC", "120")
	t.Setenv("TASK_WORKERS", "8")
	t.Setenv("MONITOR_ENABLED", "false")
	t.Setenv("OUTPUT_DIR", "/var/lib/studyhub/audio")

	cfg := Load()

	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q, want test-key", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel != "gemini-2.0-pro" {
		t.Errorf("GeminiModel = %q, want gemini-2.0-pro", cfg.GeminiModel)
	}
	if cfg.GenerationTimeout != 120*time.Second {
		t.Errorf("GenerationTimeout = %v, want 2m", cfg.GenerationTimeout)
	}
	if cfg.TaskWorkers != 8 {
		t.Errorf("TaskWorkers = %d, want 8", cfg.TaskWorkers)
	}
	if cfg.MonitorEnabled {
		t.Error("MonitorEnabled = true, want false")
	}
	if cfg.OutputDir != "/var/lib/studyhub/audio" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TASK_WORKERS", "many")
	t.Setenv("MONITOR_ENABLED", "sometimes")
	t.Setenv("HTTP_READ_TIMEOUT_SEC", "soon")

	cfg := Load()

	if cfg.TaskWorkers != 0 {
		t.Errorf("TaskWorkers = %d, want default 0", cfg.TaskWorkers)
	}
	if !cfg.MonitorEnabled {
		t.Error("MonitorEnabled = false, want default true")
	}
	if cfg.HTTPReadTimeout != 30*time.Second {
		t.Errorf("HTTPReadTimeout = %v, want default 30s", cfg.HTTPReadTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "complete config",
			mutate: func(c *Config) { c.GeminiAPIKey = "key" },
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "empty output dir",
			mutate: func(c *Config) {
				c.GeminiAPIKey = "key"
				c.OutputDir = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
