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


package launchpad

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/journal"
	"github.com/poiesic/launchpad/provider"
	"github.com/poiesic/launchpad/provider/mock"
	"github.com/poiesic/launchpad/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doneMonitor signals every completed dispatch.
type doneMonitor struct {
	done chan bool
}

func newDoneMonitor() *doneMonitor {
	return &doneMonitor{done: make(chan bool, 16)}
}

func (m *doneMonitor) Dispatched(string, int, int) {}
func (m *doneMonitor) BatchAccepted(string, int)   {}
func (m *doneMonitor) BatchDiscarded(string)       {}
func (m *doneMonitor) BatchFailed(string, error)   {}
func (m *doneMonitor) ResultsCleared()             {}
func (m *doneMonitor) Completed(_ string, d bool)  { m.done <- d }

func (m *doneMonitor) wait(t *testing.T) bool {
	t.Helper()
	select {
	case discarded := <-m.done:
		return discarded
	case <-time.After(10 * time.Second):
		t.Fatal("dispatch did not complete")
		return false
	}
}

func waitReady(t *testing.T, lp *Launchpad) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, lp.Registry().Wait(ctx))
}

func TestOpen(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		lp, err := Open(nil)
		assert.Equal(t, ErrConfigRequired, err)
		assert.Nil(t, lp)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := Open(config.NewConfig(config.WithLogLevel("loud")))
		assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
	})

	t.Run("defaults", func(t *testing.T) {
		lp, err := Open(config.DefaultConfig())
		require.NoError(t, err)
		defer lp.Close()

		assert.NotNil(t, lp.Store())
		assert.NotNil(t, lp.Registry())
		assert.Nil(t, lp.Journal())
		waitReady(t, lp)
		assert.Empty(t, lp.Registry().Providers())
	})

	t.Run("journal path is a file", func(t *testing.T) {
		tc := telemetry.DefaultConfig()
		tc.Enabled = true
		tc.JournalPath = filepath.Join(t.TempDir(), "file")
		require.NoError(t, writeFile(tc.JournalPath))

		_, err := Open(config.NewConfig(config.WithTelemetry(tc)))
		assert.ErrorIs(t, err, journal.ErrNotDirectory)
	})
}

func TestSearchWithCustomFactory(t *testing.T) {
	monitor := newDoneMonitor()
	cfg := config.NewConfig(config.WithProviders(provider.Spec{Name: "static", Kind: "mock"}))

	lp, err := Open(cfg,
		WithMonitor(monitor),
		WithFactory("mock", func(spec provider.Spec) (provider.Provider, error) {
			return mock.NewMockProvider(spec.Name).WithResults(core.NewResult(spec.Name, "hit", "", "hit")), nil
		}),
	)
	require.NoError(t, err)
	defer lp.Close()
	waitReady(t, lp)

	lp.Store().SetQuery("anything")
	assert.False(t, monitor.wait(t))

	results := lp.Store().Results()
	require.Len(t, results, 1)
	assert.Equal(t, "static", results[0].ProviderID)
}

func TestSearchIsJournaled(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	journalPath := filepath.Join(t.TempDir(), "journal")
	tc := telemetry.DefaultConfig()
	tc.Enabled = true
	tc.Exporter = telemetry.ExporterJournal
	tc.JournalPath = journalPath

	cfg := config.NewConfig(
		config.WithTelemetry(tc),
		config.WithProviders(
			provider.Spec{Name: "echo", Command: "sh", Args: []string{"-c", `printf '{"title":"%s"}' "$1"`, "sh", "{query}"}},
			provider.Spec{Name: "broken", Command: "sh", Args: []string{"-c", "exit 1"}},
		),
	)

	monitor := newDoneMonitor()
	lp, err := Open(cfg, WithMonitor(monitor), WithSyncExport(true))
	require.NoError(t, err)
	waitReady(t, lp)

	lp.Store().SetQuery("hello")
	assert.True(t, monitor.wait(t), "a rejected batch discards the interaction")

	results := lp.Store().Results()
	require.Len(t, results, 1)
	assert.Equal(t, "hello", results[0].Title)

	require.NoError(t, lp.Close())

	j, err := journal.Open(journalPath)
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	stats, err := j.ProviderStats(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "broken", stats[0].ProviderID)
	assert.Equal(t, 1, stats[0].Failures)
	assert.Equal(t, "echo", stats[1].ProviderID)
	assert.Equal(t, 0, stats[1].Failures)

	interactions, err := j.InteractionStats(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, journal.InteractionStat{Total: 1, Discarded: 1}, interactions)
}

func TestClose(t *testing.T) {
	lp, err := Open(config.DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, lp.Close())
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0644)
}
