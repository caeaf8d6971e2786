// Package config handles application configuration loading and validation.
package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage"    validate:"required"`
	Annotation AnnotationConfig `mapstructure:"annotation" validate:"required"`
	Export     ExportConfig     `mapstructure:"export"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains settings for the session image storage.
type StorageConfig struct {
	// TempDir is the root directory for per-session image uploads.
	TempDir string `mapstructure:"temp_dir" validate:"required"`
}

// AnnotationConfig contains settings for the batch annotation engine.
// The Gemini API key itself is not configuration: it is supplied by the
// caller on every job submission.
type AnnotationConfig struct {
	// Model is the Gemini model name used for annotation calls.
	Model string `mapstructure:"model" validate:"required"`

	// WorkerCount bounds how many jobs annotate concurrently.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// ItemConcurrency bounds concurrent annotation calls within one job.
	ItemConcurrency int `mapstructure:"item_concurrency" validate:"required,gt=0"`

	// MaxRetries bounds rate-limit retries per annotation call.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// QueueSize is the buffer size of the background task queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// JobTimeout caps how long one job may run before it is failed as a pool
	// fault. Zero disables the deadline.
	JobTimeout time.Duration `mapstructure:"job_timeout" validate:"gte=0"`
}

// ExportConfig contains settings for metadata embedding and remote upload.
type ExportConfig struct {
	// FTPHost is the default remote host when an export request does not name
	// one.
	FTPHost string `mapstructure:"ftp_host" validate:"required"`
}
