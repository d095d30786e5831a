// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/poiesic/launchpad/provider"
	"github.com/poiesic/launchpad/telemetry"
)

// Config holds configuration for a launchpad instance.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	// Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// PoolSize is the number of plugin searches that may run at once.
	// Default: runtime.NumCPU() * 2
	PoolSize int `mapstructure:"pool_size" yaml:"pool_size"`

	// LoadTimeout bounds provider loading. Zero means no timeout.
	LoadTimeout time.Duration `mapstructure:"load_timeout" yaml:"load_timeout,omitempty"`

	// Providers lists the configured search providers, in dispatch order.
	Providers []provider.Spec `mapstructure:"providers" yaml:"providers,omitempty"`

	// Telemetry configures interaction tracing.
	Telemetry telemetry.Config `mapstructure:"telemetry" yaml:"telemetry"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithLogLevel sets the log level.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithPoolSize sets the plugin worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithProviders appends provider specs.
func WithProviders(specs ...provider.Spec) ConfigOption {
	return func(c *Config) {
		c.Providers = append(c.Providers, specs...)
	}
}

// WithTelemetry replaces the telemetry configuration.
func WithTelemetry(cfg telemetry.Config) ConfigOption {
	return func(c *Config) {
		c.Telemetry = cfg
	}
}

func defaultPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 1 {
		size = 1
	}
	return size
}

// DefaultConfig returns a Config with no providers and tracing disabled.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		PoolSize:  defaultPoolSize(),
		Telemetry: telemetry.DefaultConfig(),
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithPoolSize(4),
//	    WithProviders(provider.Spec{Name: "calc", Command: "launchpad-calc"}),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Providers {
		if c.Providers[i].Kind == "" {
			c.Providers[i].Kind = provider.DefaultKind
		}
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("config: %w", ErrInvalidPoolSize)
	}
	if c.LoadTimeout < 0 {
		return fmt.Errorf("config: load_timeout must not be negative")
	}

	seen := make(map[string]bool, len(c.Providers))
	for _, spec := range c.Providers {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if seen[spec.Name] {
			return fmt.Errorf("config: %w: %q", provider.ErrDuplicateProvider, spec.Name)
		}
		seen[spec.Name] = true
	}

	return c.Telemetry.Validate()
}

// ParseLogLevel converts a level name into a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}
