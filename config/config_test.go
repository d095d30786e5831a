package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/launchpad/provider"
	"github.com/poiesic/launchpad/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.GreaterOrEqual(t, cfg.PoolSize, 1)
	assert.Empty(t, cfg.Providers)
	assert.False(t, cfg.Telemetry.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with options", func(t *testing.T) {
		tc := telemetry.DefaultConfig()
		tc.Exporter = telemetry.ExporterStdout
		cfg := NewConfig(
			WithLogLevel("debug"),
			WithPoolSize(3),
			WithProviders(provider.Spec{Name: "a"}, provider.Spec{Name: "b"}),
			WithTelemetry(tc),
		)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 3, cfg.PoolSize)
		assert.Len(t, cfg.Providers, 2)
		assert.Equal(t, telemetry.ExporterStdout, cfg.Telemetry.Exporter)
	})
}

func TestValidate(t *testing.T) {
	t.Run("normalizes", func(t *testing.T) {
		cfg := NewConfig(WithLogLevel(" WARN "), WithProviders(provider.Spec{Name: "a"}))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, provider.DefaultKind, cfg.Providers[0].Kind)
	})

	t.Run("empty log level defaults to info", func(t *testing.T) {
		cfg := NewConfig(WithLogLevel(""))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := NewConfig(WithLogLevel("loud")).Validate()
		assert.ErrorIs(t, err, ErrInvalidLogLevel)
	})

	t.Run("invalid pool size", func(t *testing.T) {
		err := NewConfig(WithPoolSize(0)).Validate()
		assert.ErrorIs(t, err, ErrInvalidPoolSize)
	})

	t.Run("invalid provider", func(t *testing.T) {
		err := NewConfig(WithProviders(provider.Spec{})).Validate()
		assert.ErrorIs(t, err, provider.ErrInvalidSpec)
	})

	t.Run("duplicate provider", func(t *testing.T) {
		err := NewConfig(WithProviders(provider.Spec{Name: "a"}, provider.Spec{Name: "a"})).Validate()
		assert.ErrorIs(t, err, provider.ErrDuplicateProvider)
	})

	t.Run("invalid telemetry", func(t *testing.T) {
		tc := telemetry.DefaultConfig()
		tc.SampleRate = 2
		err := NewConfig(WithTelemetry(tc)).Validate()
		assert.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLogLevel("trace")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
log_level: debug
pool_size: 4
load_timeout: 3s
providers:
  - files
  - name: calc
    command: launchpad-calc
    args: ["--eval", "{query}"]
    prefix: "="
    timeout: 250ms
    variables:
      Precision: "4"
telemetry:
  enabled: true
  exporter: stdout
  sample_rate: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Equal(t, 3*time.Second, cfg.LoadTimeout)

	require.Len(t, cfg.Providers, 2)
	assert.Equal(t, provider.Spec{Name: "files", Kind: provider.DefaultKind}, cfg.Providers[0])
	assert.Equal(t, provider.Spec{
		Name:      "calc",
		Kind:      provider.DefaultKind,
		Command:   "launchpad-calc",
		Args:      []string{"--eval", "{query}"},
		Prefix:    "=",
		Timeout:   250 * time.Millisecond,
		Variables: map[string]string{"precision": "4"},
	}, cfg.Providers[1])

	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, telemetry.ExporterStdout, cfg.Telemetry.Exporter)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
	// Unset keys keep their defaults.
	assert.Equal(t, telemetry.DefaultConfig().ServiceName, cfg.Telemetry.ServiceName)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "pool_size: 4\n")
	t.Setenv("LAUNCHPAD_POOL_SIZE", "9")
	t.Setenv("LAUNCHPAD_TELEMETRY_EXPORTER", "none")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.PoolSize)
	assert.Equal(t, telemetry.ExporterNone, cfg.Telemetry.Exporter)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty provider shorthand", func(t *testing.T) {
		_, err := Load(writeFile(t, "providers:\n  - \"\"\n"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "log_level: chatty\n"))
		assert.ErrorIs(t, err, ErrInvalidLogLevel)
	})
}

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := NewConfig(
		WithPoolSize(2),
		WithProviders(provider.Spec{
			Name:    "echo",
			Kind:    provider.DefaultKind,
			Command: "echo",
			Timeout: time.Second,
		}),
	)
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}
