package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/provider"
	"github.com/poiesic/launchpad/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"launchpad"}, args...))
	return out.String(), err
}

func findFlag[T cli.Flag](cmd *cli.Command, name string) T {
	var zero T
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok {
			for _, n := range flag.Names() {
				if n == name {
					return f
				}
			}
		}
	}
	return zero
}

func command(t *testing.T, name string) *cli.Command {
	t.Helper()
	for _, cmd := range newApp().Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestCommandFlags(t *testing.T) {
	t.Run("search timeout has default value", func(t *testing.T) {
		f := findFlag[*cli.DurationFlag](command(t, "search"), "timeout")
		require.NotNil(t, f)
		assert.Equal(t, "10s", f.Value.String())
	})

	t.Run("stats since has default value", func(t *testing.T) {
		f := findFlag[*cli.DurationFlag](command(t, "stats"), "since")
		require.NotNil(t, f)
		assert.Equal(t, "24h0m0s", f.Value.String())
	})

	t.Run("init force is off by default", func(t *testing.T) {
		f := findFlag[*cli.BoolFlag](command(t, "init"), "force")
		require.NotNil(t, f)
		assert.False(t, f.Value)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "chatty", "init", filepath.Join(t.TempDir(), "c.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("valid level", func(t *testing.T) {
		_, err := runApp(t, "--log-level", "ERROR", "init", filepath.Join(t.TempDir(), "c.yaml"))
		require.NoError(t, err)
	})
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launchpad", "config.yaml")

	out, err := runApp(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = runApp(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runApp(t, "init", "--force", path)
	require.NoError(t, err)
}

func TestSearchCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	journalPath := filepath.Join(dir, "journal")
	tc := telemetry.DefaultConfig()
	tc.Enabled = true
	tc.JournalPath = journalPath

	cfg := config.NewConfig(
		config.WithLogLevel("error"),
		config.WithTelemetry(tc),
		config.WithProviders(provider.Spec{
			Name:    "echo",
			Command: "sh",
			Args:    []string{"-c", `printf '{"title":"%s","subtitle":"echoed"}' "$1"`, "sh", "{query}"},
		}),
	)
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, cfg.Write(configPath))

	t.Run("requires a query", func(t *testing.T) {
		_, err := runApp(t, "--config", configPath, "search")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query is required")
	})

	t.Run("prints results", func(t *testing.T) {
		out, err := runApp(t, "--config", configPath, "search", "hello", "world")
		require.NoError(t, err)
		assert.Contains(t, out, "Found 1 results")
		assert.Contains(t, out, "0: hello world - echoed [echo]")
	})

	t.Run("stats reads the journal", func(t *testing.T) {
		out, err := runApp(t, "--config", configPath, "stats", "--recent", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "Interactions: 1 (1 complete, 0 discarded)")
		assert.Contains(t, out, "echo: 1 spans, 0 failed")
		assert.Contains(t, out, "Recent spans:")
		assert.NotContains(t, out, "hello world")
	})

	t.Run("stats prunes", func(t *testing.T) {
		out, err := runApp(t, "stats", "--journal", journalPath, "--prune", "1ns")
		require.NoError(t, err)
		assert.Contains(t, out, "Pruned 2 spans")
		assert.Contains(t, out, "Interactions: 0")
	})
}

func TestStatsCommandMissingJournal(t *testing.T) {
	_, err := runApp(t, "stats", "--journal", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
