package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables with the STOCKTAG_
// prefix (e.g. STOCKTAG_SERVER_PORT), falling back to defaults for anything
// unset. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.temp_dir", "temp")
	v.SetDefault("annotation.model", "gemini-2.0-flash")
	v.SetDefault("annotation.worker_count", 4)
	v.SetDefault("annotation.item_concurrency", 3)
	v.SetDefault("annotation.max_retries", 3)
	v.SetDefault("annotation.queue_size", 100)
	v.SetDefault("annotation.job_timeout", 15*time.Minute)
	v.SetDefault("export.ftp_host", "ftp.shutterstock.com")

	v.SetEnvPrefix("STOCKTAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
