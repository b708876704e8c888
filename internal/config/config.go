// Package config assembles the assistant's configuration from the
// environment and an optional YAML file. Credentials are validated present at
// startup; once constructed the Config is read-only and safe to share across
// sessions.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bjg/skeduleslive-streamlit/internal/skedules"
)

// DefaultBaseURL matches the local development default of the content service.
const DefaultBaseURL = "http://localhost:8000"

// DefaultConfigPath is consulted when SKD_CONFIG is unset.
const DefaultConfigPath = "assistant.yaml"

// Config carries everything the client and dispatch core are constructed
// with. Credentials come from the environment only, never the file.
type Config struct {
	AnthropicAPIKey string
	BaseURL         string
	APIKey          string
	Email           string // optional; enables token refresh re-auth
	Password        string

	Model       string
	MaxRounds   int
	HTTPTimeout time.Duration
	Retry       skedules.RetryConfig
}

// fileConfig is the YAML overlay. Durations are milliseconds.
type fileConfig struct {
	Model         string `yaml:"model"`
	MaxRounds     int    `yaml:"maxRounds"`
	HTTPTimeoutMS int    `yaml:"httpTimeoutMs"`
	Retry         struct {
		MaxRetries   *int `yaml:"maxRetries"`
		BackoffMS    int  `yaml:"backoffMs"`
		MaxBackoffMS int  `yaml:"maxBackoffMs"`
	} `yaml:"retry"`
}

// Load reads the environment and, when present, the YAML config file named by
// SKD_CONFIG (default assistant.yaml). A missing required credential is a
// fatal configuration error.
func Load() (*Config, error) {
	cfg := &Config{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		BaseURL:         envOr("SKEDULESLIVE_BASE_URL", DefaultBaseURL),
		APIKey:          os.Getenv("SKEDULESLIVE_API_KEY"),
		Email:           os.Getenv("SKEDULESLIVE_EMAIL"),
		Password:        os.Getenv("SKEDULESLIVE_PASSWORD"),
		HTTPTimeout:     30 * time.Second,
		Retry:           skedules.DefaultRetryConfig(),
	}

	path := envOr("SKD_CONFIG", DefaultConfigPath)
	if err := applyFile(cfg, path, os.Getenv("SKD_CONFIG") != ""); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays file settings onto cfg. An absent file is only an error
// when the path was set explicitly.
func applyFile(cfg *Config, path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config load: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config parse %s: %w", path, err)
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.MaxRounds > 0 {
		cfg.MaxRounds = fc.MaxRounds
	}
	if fc.HTTPTimeoutMS > 0 {
		cfg.HTTPTimeout = time.Duration(fc.HTTPTimeoutMS) * time.Millisecond
	}
	if fc.Retry.MaxRetries != nil {
		cfg.Retry.MaxRetries = *fc.Retry.MaxRetries
	}
	if fc.Retry.BackoffMS > 0 {
		cfg.Retry.Backoff = time.Duration(fc.Retry.BackoffMS) * time.Millisecond
	}
	if fc.Retry.MaxBackoffMS > 0 {
		cfg.Retry.MaxBackoff = time.Duration(fc.Retry.MaxBackoffMS) * time.Millisecond
	}
	return nil
}

// Validate reports the first missing credential or out-of-range setting.
func (c *Config) Validate() error {
	if c.AnthropicAPIKey == "" {
		return errors.New("config: ANTHROPIC_API_KEY is not set")
	}
	if c.APIKey == "" {
		return errors.New("config: SKEDULESLIVE_API_KEY is not set")
	}
	if c.BaseURL == "" {
		return errors.New("config: SKEDULESLIVE_BASE_URL is empty")
	}
	if c.MaxRounds < 0 {
		return errors.New("config: maxRounds must be >= 0")
	}
	return c.Retry.Validate()
}

// ClientConfig derives the remote-service client configuration.
func (c *Config) ClientConfig() skedules.Config {
	return skedules.Config{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Email:       c.Email,
		Password:    c.Password,
		HTTPTimeout: c.HTTPTimeout,
		Retry:       c.Retry,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
