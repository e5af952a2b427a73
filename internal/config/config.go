// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for aiapp.
//
// Configuration sources, in order of precedence:
//   - AIAPP_* environment variables
//   - ~/.aiapp/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"

	"github.com/kagmin23/aiapp-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete aiapp configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// Camera configuration
	Camera CameraConfig `toml:"camera"`

	// Location configuration
	Location LocationConfig `toml:"location"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Logging configuration
	Log LogConfig `toml:"log"`
}

// APIConfig contains backend API configuration.
type APIConfig struct {
	// BaseURL is the backend API base URL
	BaseURL string `toml:"base_url" env:"AIAPP_API_URL"`
	// TimeoutSeconds is the timeout for ordinary requests
	TimeoutSeconds int `toml:"timeout_seconds" env:"AIAPP_API_TIMEOUT"`
	// ImageTimeoutSeconds is the timeout for image generation requests.
	// Image synthesis is slow; this must be materially longer than
	// TimeoutSeconds.
	ImageTimeoutSeconds int `toml:"image_timeout_seconds" env:"AIAPP_IMAGE_TIMEOUT"`
	// RequestsPerSecond throttles outgoing calls (0 disables throttling)
	RequestsPerSecond float64 `toml:"requests_per_second" env:"AIAPP_API_RPS"`
}

// CameraConfig contains the captures-directory settings.
type CameraConfig struct {
	// CapturesDir is watched for new image files to upload.
	// Default: ~/.aiapp/captures
	CapturesDir string `toml:"captures_dir" env:"AIAPP_CAPTURES_DIR"`
}

// LocationConfig contains location screen settings.
type LocationConfig struct {
	// LookupURL is the IP geolocation endpoint
	LookupURL string `toml:"lookup_url" env:"AIAPP_LOCATION_URL"`
	// Override pins the displayed location instead of looking it up
	Override string `toml:"override" env:"AIAPP_LOCATION_OVERRIDE"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// MaxInputLength caps the chat composer length
	MaxInputLength int `toml:"max_input_length"`
	// ShowTimestamps toggles per-entry timestamps in the transcript
	ShowTimestamps bool `toml:"show_timestamps"`
	// IdleTimeoutMinutes signs the user out after this much inactivity.
	// Zero disables the timer.
	IdleTimeoutMinutes int `toml:"idle_timeout_minutes" env:"AIAPP_IDLE_TIMEOUT_MINUTES"`
}

// IdleTimeout returns the idle sign-out duration.
func (u UIConfig) IdleTimeout() time.Duration {
	return time.Duration(u.IdleTimeoutMinutes) * time.Minute
}

// LogConfig contains debug log settings.
type LogConfig struct {
	// File is the debug log path. Empty disables logging.
	// The TUI owns stderr, so logs always go to a file.
	File string `toml:"file" env:"AIAPP_LOG_FILE"`
	// Level is one of "debug", "info", "warn", "error"
	Level string `toml:"level" env:"AIAPP_LOG_LEVEL"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:             "http://localhost:3000",
			TimeoutSeconds:      15,
			ImageTimeoutSeconds: 45,
			RequestsPerSecond:   5,
		},
		Camera: CameraConfig{},
		Location: LocationConfig{
			LookupURL: "http://ip-api.com/json",
		},
		UI: UIConfig{
			MaxInputLength:     1000,
			ShowTimestamps:     true,
			IdleTimeoutMinutes: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the ordinary request timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ImageTimeout returns the image generation timeout as a duration.
func (c *APIConfig) ImageTimeout() time.Duration {
	return time.Duration(c.ImageTimeoutSeconds) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the aiapp configuration directory (~/.aiapp).
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".aiapp"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from disk and the environment, falling back to
// defaults for anything unset. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	// Environment variables override file values
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from an explicit path, applying env
// overrides, defaults, and validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default TOML path atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills any zero values with defaults.
func (c *Config) SetDefaults() {
	def := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.API.ImageTimeoutSeconds <= 0 {
		c.API.ImageTimeoutSeconds = def.API.ImageTimeoutSeconds
	}
	if c.API.RequestsPerSecond < 0 {
		c.API.RequestsPerSecond = def.API.RequestsPerSecond
	}
	if c.Camera.CapturesDir == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Camera.CapturesDir = filepath.Join(dir, "captures")
		}
	}
	if c.Location.LookupURL == "" {
		c.Location.LookupURL = def.Location.LookupURL
	}
	if c.UI.MaxInputLength <= 0 {
		c.UI.MaxInputLength = def.UI.MaxInputLength
	}
	if c.Log.File == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Log.File = filepath.Join(dir, "aiapp.log")
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "must not be empty"})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: "must be an http(s) URL"})
	}

	if c.API.ImageTimeoutSeconds < c.API.TimeoutSeconds {
		errs = append(errs, ValidationError{Field: "api.image_timeout_seconds", Message: "must not be shorter than timeout_seconds"})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{Field: "log.level", Message: "must be one of debug, info, warn, error"})
	}

	return errors.Join(errs...)
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}
