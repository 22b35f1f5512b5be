// Package config provides configuration loading and validation for the CLI and the development server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the client configuration.
const (
	DefaultAPIURL  = "http://localhost:5000/api"
	DefaultTimeout = 30 * time.Second
)

// Config is the client configuration. Values come from, in increasing priority:
// defaults, an optional config file, and the environment.
type Config struct {
	APIURL      string        `mapstructure:"api_url"`      // Base URL of the resume API
	SessionFile string        `mapstructure:"session_file"` // Where the admin session token is persisted
	Timeout     time.Duration `mapstructure:"timeout"`      // Per-request HTTP timeout
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"` // "text" or "json"
}

// clientEnv binds config keys to environment variables.
var clientEnv = map[string]string{
	"api_url":      "RESUME_API_URL",
	"session_file": "RESUME_SESSION_FILE",
	"timeout":      "RESUME_TIMEOUT",
	"log_level":    "LOG_LEVEL",
	"log_format":   "LOG_FORMAT",
}

// Load reads the client configuration. path may name a YAML, JSON or TOML file;
// when empty, resume-builder.{yaml,json,toml} is looked up in the working directory
// and its absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("session_file", "")

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}
	if err := bindEnv(v, clientEnv); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validateHTTPURL("api_url", c.APIURL); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("resume-builder")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func bindEnv(v *viper.Viper, env map[string]string) error {
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}
	return nil
}

func validateHTTPURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("config error: '%s' is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config error: '%s' must be an http(s) URL, got %q", key, raw)
	}
	return nil
}
