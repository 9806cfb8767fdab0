// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Encoding EncodingConfig
	Merge    MergeConfig
	Fetch    FetchConfig
	Export   ExportConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// Root confines every path received over HTTP (default: current directory)
	Root string `env:"SERVER_ROOT" default:"."`

	// MaxJobs bounds concurrent merge jobs (default: 2)
	MaxJobs int `env:"SERVER_MAX_JOBS" default:"2"`

	// JobWait is how long a request waits for a job slot (default: 10s)
	JobWait time.Duration `env:"SERVER_JOB_WAIT" default:"10s"`

	// AllowedOrigins is a comma-separated CORS allow list; empty disables CORS headers
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
}

// EncodingConfig controls how text files are decoded.
type EncodingConfig struct {
	// Candidates are tried in order (default: utf-8,cp949)
	Candidates []string `env:"ENCODING_CANDIDATES" default:"utf-8,cp949"`

	// Detect attaches a detected-charset hint to decode errors (default: true)
	Detect bool `env:"ENCODING_DETECT" default:"true"`
}

// MergeConfig holds CSV merge settings.
type MergeConfig struct {
	// Suffix selects files named *<suffix>.csv (default: _data)
	Suffix string `env:"MERGE_SUFFIX" default:"_data"`

	// EncodingFallback loads merge sources through the encoding candidates
	// instead of plain UTF-8 (default: false)
	EncodingFallback bool `env:"MERGE_ENCODING_FALLBACK" default:"false"`
}

// FetchConfig holds HTTP client settings for JSON fetches.
type FetchConfig struct {
	Timeout   time.Duration `env:"FETCH_TIMEOUT" default:"30s"`
	UserAgent string        `env:"FETCH_USER_AGENT" default:"datamine/1.0"`
}

// ExportConfig holds database export settings.
type ExportConfig struct {
	// DatabaseURL is the PostgreSQL connection string, needed only by the postgres sink.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// SQLitePath is the database file used by the sqlite sink (default: datamine.db)
	SQLitePath string `env:"SQLITE_PATH" default:"datamine.db"`

	// BatchSize is the number of rows per insert batch (default: 500)
	BatchSize int `env:"EXPORT_BATCH_SIZE" default:"500"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// SeqURL additionally ships records to a Seq server when set
	SeqURL string `env:"LOG_SEQ_URL"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
