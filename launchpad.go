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
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/journal"
	"github.com/poiesic/launchpad/plugin"
	"github.com/poiesic/launchpad/provider"
	"github.com/poiesic/launchpad/search"
	"github.com/poiesic/launchpad/telemetry"
)

// ErrConfigRequired is returned when Open is called without a configuration.
var ErrConfigRequired = errors.New("config required")

const shutdownTimeout = 5 * time.Second

// Launchpad wires the configured providers, telemetry and search store together.
type Launchpad struct {
	host     *plugin.Host
	registry *provider.Registry
	tracing  *telemetry.Provider
	journal  *journal.Journal
	store    *search.Store
	logger   *slog.Logger
}

// Option configures a Launchpad.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	monitor    search.Monitor
	factories  provider.Factories
	syncExport bool
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMonitor sets the monitor observing every dispatch.
func WithMonitor(monitor search.Monitor) Option {
	return func(o *options) {
		o.monitor = monitor
	}
}

// WithFactory registers an additional provider kind.
func WithFactory(kind string, factory provider.Factory) Option {
	return func(o *options) {
		o.factories[kind] = factory
	}
}

// WithSyncExport exports each span as soon as it ends instead of batching.
func WithSyncExport(sync bool) Option {
	return func(o *options) {
		o.syncExport = sync
	}
}

// Open validates cfg and starts a launchpad instance.
// Providers load in the background; the store is usable immediately.
func Open(cfg *config.Config, opts ...Option) (*Launchpad, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &options{
		logger:    slog.Default(),
		factories: provider.Factories{},
	}
	for _, opt := range opts {
		opt(options)
	}

	host, err := plugin.NewHost(
		plugin.WithPoolSize(cfg.PoolSize),
		plugin.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}
	lp := &Launchpad{
		host:   host,
		logger: options.logger.With("component", "launchpad"),
	}

	factories := host.Factories()
	maps.Copy(factories, options.factories)

	lp.registry, err = provider.NewRegistry(
		provider.FromSpecs(factories, cfg.Providers),
		provider.WithLogger(options.logger),
		provider.WithLoadTimeout(cfg.LoadTimeout),
	)
	if err != nil {
		lp.Close()
		return nil, err
	}

	telemetryOpts := []telemetry.ProviderOption{
		telemetry.WithLogger(options.logger),
		telemetry.WithSyncExport(options.syncExport),
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.Exporter == telemetry.ExporterJournal {
		lp.journal, err = journal.Open(config.ExpandHome(cfg.Telemetry.JournalPath), journal.WithLogger(options.logger))
		if err != nil {
			lp.Close()
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		telemetryOpts = append(telemetryOpts, telemetry.WithExporter(lp.journal.Exporter()))
	}

	lp.tracing, err = telemetry.NewProvider(cfg.Telemetry, telemetryOpts...)
	if err != nil {
		lp.Close()
		return nil, err
	}

	lp.store, err = search.NewStore(lp.registry, lp.tracing.Recorder(),
		search.WithLogger(options.logger),
		search.WithMonitor(options.monitor),
	)
	if err != nil {
		lp.Close()
		return nil, err
	}

	return lp, nil
}

// Store returns the search store.
func (lp *Launchpad) Store() *search.Store {
	return lp.store
}

// Registry returns the provider registry.
func (lp *Launchpad) Registry() *provider.Registry {
	return lp.registry
}

// Journal returns the span journal, or nil when the journal exporter is not in use.
func (lp *Launchpad) Journal() *journal.Journal {
	return lp.journal
}

// Close flushes telemetry and releases every resource.
// Provider searches still running are abandoned.
func (lp *Launchpad) Close() error {
	var errs []error

	// Flush spans before the journal they are written to closes.
	if lp.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := lp.tracing.Shutdown(ctx); err != nil {
			lp.logger.Error("error shutting down telemetry", "err", err)
			errs = append(errs, err)
		}
		cancel()
	}
	if lp.journal != nil {
		if err := lp.journal.Close(); err != nil {
			lp.logger.Error("error closing journal", "err", err)
			errs = append(errs, err)
		}
	}
	if lp.host != nil {
		lp.host.Release()
	}
	return errors.Join(errs...)
}
