package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// Generation Configuration
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	// GenerationTimeout bounds one generation call. Zero means no
	// deadline, letting slow upstreams finish at their own pace.
	GenerationTimeout time.Duration

	// Narration Configuration
	TTSBaseURL  string
	TTSLanguage string
	OutputDir   string

	// Task Execution Configuration. Zero workers means every job gets
	// its own goroutine; a positive count bounds concurrency with a pool.
	TaskWorkers   int
	TaskQueueSize int

	// Completion Callback Configuration. CallbackURL is the default
	// notification target for submissions that carry none; empty
	// leaves callbacks per-submission only.
	CallbackURL              string
	CallbackTimeout          time.Duration
	CallbackFailureThreshold int
	CallbackSuccessThreshold int
	CallbackBreakerTimeout   time.Duration

	// Monitor Configuration
	MonitorEnabled      bool
	MonitorSchedule     string
	MonitorTickInterval time.Duration

	// Registry Configuration. An empty MongoURI selects the in-memory
	// registry.
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// CORS Configuration
	CORSAllowedOrigins   string
	CORSAllowedMethods   string
	CORSAllowedHeaders   string
	CORSAllowCredentials bool
	CORSMaxAge           int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// HTTP Server
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT_SEC", 30) * time.Second,
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT_SEC", 30) * time.Second,

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Generation
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GenerationTimeout: getDurationEnv("GENERATION_TIMEOUT_SEC", 0) * time.Second,

		// Narration
		TTSBaseURL:  getEnv("TTS_BASE_URL", "https://translate.google.com"),
		TTSLanguage: getEnv("TTS_LANGUAGE", "en"),
		OutputDir:   getEnv("OUTPUT_DIR", "generated"),

		// Task Execution
		TaskWorkers:   getIntEnv("TASK_WORKERS", 0),
		TaskQueueSize: getIntEnv("TASK_QUEUE_SIZE", 64),

		// Completion Callbacks
		CallbackURL:              getEnv("CALLBACK_URL", ""),
		CallbackTimeout:          getDurationEnv("CALLBACK_TIMEOUT_SEC", 10) * time.Second,
		CallbackFailureThreshold: getIntEnv("CALLBACK_FAILURE_THRESHOLD", 5),
		CallbackSuccessThreshold: getIntEnv("CALLBACK_SUCCESS_THRESHOLD", 2),
		CallbackBreakerTimeout:   getDurationEnv("CALLBACK_BREAKER_TIMEOUT_SEC", 60) * time.Second,

		// Monitor
		MonitorEnabled:      getBoolEnv("MONITOR_ENABLED", true),
		MonitorSchedule:     getEnv("MONITOR_SCHEDULE", "*/5 * * * *"),
		MonitorTickInterval: getDurationEnv("MONITOR_TICK_INTERVAL_SEC", 30) * time.Second,

		// Registry
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "studyhub"),
		MongoTimeout:  getDurationEnv("MONGO_TIMEOUT_SEC", 10) * time.Second,

		// CORS
		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "*"),
		CORSAllowedMethods:   getEnv("CORS_ALLOWED_METHODS", "GET, POST, OPTIONS"),
		CORSAllowedHeaders:   getEnv("CORS_ALLOWED_HEADERS", "*"),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAge:           getIntEnv("CORS_MAX_AGE", 3600),
	}
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR must not be empty")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
		log.Printf("Warning: Invalid duration value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: Invalid boolean value for %s, using default %t", key, defaultValue)
	}
	return defaultValue
}
