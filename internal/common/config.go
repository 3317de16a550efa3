package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Ollama      OllamaConfig    `toml:"ollama"`
	Summarize   SummarizeConfig `toml:"summarize"`
	QA          QAConfig        `toml:"qa"`
	Sessions    SessionsConfig  `toml:"sessions"`
	Ingest      IngestConfig    `toml:"ingest"`
	Export      ExportConfig    `toml:"export"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// OllamaConfig contains configuration for the locally-hosted model backend
type OllamaConfig struct {
	BaseURL        string `toml:"base_url"`        // Ollama-compatible endpoint (default: "http://localhost:11434")
	Model          string `toml:"model"`           // Completion model name (default: "llama3.1:8b")
	EmbeddingModel string `toml:"embedding_model"` // Embedding model name (default: "nomic-embed-text")
	Timeout        string `toml:"timeout"`         // Per-request timeout as duration string (default: "120s")
	RateLimit      string `toml:"rate_limit"`      // Minimum interval between requests (default: "100ms")
}

// SummarizeConfig contains tuning for the summarization-validation pipeline
type SummarizeConfig struct {
	MaxContentChars int     `toml:"max_content_chars"` // Content truncation before prompting (default: 12000)
	MinContentChars int     `toml:"min_content_chars"` // Below this the material is rejected without model calls (default: 100)
	ValidThreshold  float64 `toml:"valid_threshold"`   // Valid-point ratio at or above which filtering is used (default: 0.7)
	MaxPointChars   int     `toml:"max_point_chars"`   // Key points longer than this are truncated (default: 100)
	RetryChars      int     `toml:"retry_chars"`       // Shortened content length for the timeout retry (default: 6000)
}

// QAConfig contains tuning for question generation and the quality loop
type QAConfig struct {
	QualityThreshold float64 `toml:"quality_threshold"` // Questions scoring below this are improved or retired (default: 0.3)
	DefaultCount     int     `toml:"default_count"`     // Questions per generation request (default: 10)
	MaxAdversarial   int     `toml:"max_adversarial"`   // Existing questions sampled for adversarial prompts (default: 5)
}

type SessionsConfig struct {
	TTL string `toml:"ttl"` // Idle session lifetime as duration string (default: "24h")
}

// IngestConfig contains configuration for document ingestion
type IngestConfig struct {
	MaxBodySize    int    `toml:"max_body_size"`   // Maximum URL response body size in bytes (default: 10MB)
	RequestTimeout string `toml:"request_timeout"` // URL fetch timeout (default: "30s")
	UserAgent      string `toml:"user_agent"`      // User agent for URL fetches
}

type ExportConfig struct {
	Dir string `toml:"dir"` // Directory for generated PDF exports (default: "./exports")
}

// SchedulerConfig contains configuration for background maintenance
type SchedulerConfig struct {
	Enabled         bool   `toml:"enabled"`          // Enable scheduled maintenance (default: true)
	QualitySchedule string `toml:"quality_schedule"` // Cron schedule for the question quality sweep
	CleanupSchedule string `toml:"cleanup_schedule"` // Cron schedule for expired session cleanup
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in studeo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "llama3.1:8b",
			EmbeddingModel: "nomic-embed-text",
			Timeout:        "120s",
			RateLimit:      "100ms",
		},
		Summarize: SummarizeConfig{
			MaxContentChars: 12000,
			MinContentChars: 100,
			ValidThreshold:  0.7,
			MaxPointChars:   100,
			RetryChars:      6000,
		},
		QA: QAConfig{
			QualityThreshold: 0.3,
			DefaultCount:     10,
			MaxAdversarial:   5,
		},
		Sessions: SessionsConfig{
			TTL: "24h",
		},
		Ingest: IngestConfig{
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			RequestTimeout: "30s",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Export: ExportConfig{
			Dir: "./exports",
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			QualitySchedule: "0 0 3 * * *",  // Daily quality sweep at 3am (cron format with seconds)
			CleanupSchedule: "0 */30 * * * *", // Expired session cleanup every 30 minutes
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: STUDEO_ENV, fallback: GO_ENV)
	if env := os.Getenv("STUDEO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("STUDEO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("STUDEO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("STUDEO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("STUDEO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("STUDEO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("STUDEO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Ollama configuration
	if baseURL := os.Getenv("STUDEO_OLLAMA_BASE_URL"); baseURL != "" {
		config.Ollama.BaseURL = baseURL
	}
	if model := os.Getenv("STUDEO_OLLAMA_MODEL"); model != "" {
		config.Ollama.Model = model
	}
	if embeddingModel := os.Getenv("STUDEO_OLLAMA_EMBEDDING_MODEL"); embeddingModel != "" {
		config.Ollama.EmbeddingModel = embeddingModel
	}
	if timeout := os.Getenv("STUDEO_OLLAMA_TIMEOUT"); timeout != "" {
		if _, err := time.ParseDuration(timeout); err == nil {
			config.Ollama.Timeout = timeout
		}
	}
	if rateLimit := os.Getenv("STUDEO_OLLAMA_RATE_LIMIT"); rateLimit != "" {
		if _, err := time.ParseDuration(rateLimit); err == nil {
			config.Ollama.RateLimit = rateLimit
		}
	}

	// Summarize configuration
	if maxChars := os.Getenv("STUDEO_SUMMARIZE_MAX_CONTENT_CHARS"); maxChars != "" {
		if mc, err := strconv.Atoi(maxChars); err == nil {
			config.Summarize.MaxContentChars = mc
		}
	}
	if threshold := os.Getenv("STUDEO_SUMMARIZE_VALID_THRESHOLD"); threshold != "" {
		if t, err := strconv.ParseFloat(threshold, 64); err == nil {
			config.Summarize.ValidThreshold = t
		}
	}

	// QA configuration
	if threshold := os.Getenv("STUDEO_QA_QUALITY_THRESHOLD"); threshold != "" {
		if t, err := strconv.ParseFloat(threshold, 64); err == nil {
			config.QA.QualityThreshold = t
		}
	}
	if count := os.Getenv("STUDEO_QA_DEFAULT_COUNT"); count != "" {
		if c, err := strconv.Atoi(count); err == nil {
			config.QA.DefaultCount = c
		}
	}

	// Sessions configuration
	if ttl := os.Getenv("STUDEO_SESSIONS_TTL"); ttl != "" {
		if _, err := time.ParseDuration(ttl); err == nil {
			config.Sessions.TTL = ttl
		}
	}

	// Export configuration
	if dir := os.Getenv("STUDEO_EXPORT_DIR"); dir != "" {
		config.Export.Dir = dir
	}

	// Scheduler configuration
	if enabled := os.Getenv("STUDEO_SCHEDULER_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = e
		}
	}
	if schedule := os.Getenv("STUDEO_SCHEDULER_QUALITY_SCHEDULE"); schedule != "" {
		config.Scheduler.QualitySchedule = schedule
	}
	if schedule := os.Getenv("STUDEO_SCHEDULER_CLEANUP_SCHEDULE"); schedule != "" {
		config.Scheduler.CleanupSchedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// OllamaTimeout parses the configured Ollama timeout, falling back to 120s
func (c *Config) OllamaTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Ollama.Timeout); err == nil && d > 0 {
		return d
	}
	return 120 * time.Second
}

// OllamaRateLimit parses the configured request interval, falling back to 100ms
func (c *Config) OllamaRateLimit() time.Duration {
	if d, err := time.ParseDuration(c.Ollama.RateLimit); err == nil && d > 0 {
		return d
	}
	return 100 * time.Millisecond
}

// SessionTTL parses the configured session lifetime, falling back to 24h
func (c *Config) SessionTTL() time.Duration {
	if d, err := time.ParseDuration(c.Sessions.TTL); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// ValidateSchedule validates a cron schedule expression with a seconds field
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
