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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/launchpad"
	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/journal"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "launchpad",
		Usage: "Fan a query out to search providers and collect their results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: ./.launchpad/config.yaml or ~/.config/launchpad/config.yaml)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one query against every capable provider and print the results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "timeout",
						Aliases: []string{"t"},
						Usage:   "Maximum time to wait for providers",
						Value:   10 * time.Second,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Summarise journaled interactions and provider spans",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "journal",
						Aliases: []string{"j"},
						Usage:   "Path to journal directory (defaults to telemetry.journal_path)",
					},
					&cli.DurationFlag{
						Name:  "since",
						Usage: "Only include spans that ended within this window",
						Value: 24 * time.Hour,
					},
					&cli.IntFlag{
						Name:  "recent",
						Usage: "Also list the N most recent spans",
					},
					&cli.DurationFlag{
						Name:  "prune",
						Usage: "Delete spans older than this before reporting",
					},
				},
			},
			{
				Name:      "init",
				Usage:     "Write a default config file",
				ArgsUsage: "[path]",
				Action:    initCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
			},
		},
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("query is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyConfigLogLevel(c, cfg)

	monitor := newCompletionMonitor()
	lp, err := launchpad.Open(cfg, launchpad.WithMonitor(monitor))
	if err != nil {
		return err
	}
	defer func() {
		if err := lp.Close(); err != nil {
			slog.Error("error closing launchpad", "err", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	if err := lp.Registry().Wait(ctx); err != nil {
		return fmt.Errorf("loading providers: %w", err)
	}

	started := time.Now()
	lp.Store().SetQuery(query)

	select {
	case discarded := <-monitor.done:
		if discarded {
			slog.Warn("one or more providers failed", "query", query)
		}
	case <-ctx.Done():
		slog.Warn("timed out waiting for providers", "timeout", c.Duration("timeout"))
	}

	results := lp.Store().Results()
	printResults(c, results, time.Since(started))
	return nil
}

func printResults(c *cli.Context, results []core.Result, elapsed time.Duration) {
	w := c.App.Writer
	fmt.Fprintf(w, "Found %d results in %s\n", len(results), elapsed.Round(time.Millisecond))
	for i, r := range results {
		if r.Subtitle != "" {
			fmt.Fprintf(w, "%d: %s - %s [%s]\n", i, r.Title, r.Subtitle, r.ProviderID)
		} else {
			fmt.Fprintf(w, "%d: %s [%s]\n", i, r.Title, r.ProviderID)
		}
	}
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.String("journal")
	if path == "" {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		path = cfg.Telemetry.JournalPath
	}
	if path == "" {
		return errors.New("journal path is required: set --journal or telemetry.journal_path")
	}
	path = config.ExpandHome(path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}

	j, err := journal.Open(path, journal.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer j.Close()

	w := c.App.Writer

	if prune := c.Duration("prune"); prune > 0 {
		removed, err := j.Prune(ctx, time.Now().Add(-prune))
		if err != nil {
			return fmt.Errorf("pruning journal: %w", err)
		}
		fmt.Fprintf(w, "Pruned %d spans\n", removed)
	}

	since := time.Now().Add(-c.Duration("since"))
	interactions, err := j.InteractionStats(ctx, since)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Interactions: %d (%d complete, %d discarded)\n",
		interactions.Total, interactions.Completed, interactions.Discarded)

	providers, err := j.ProviderStats(ctx, since)
	if err != nil {
		return err
	}
	for _, p := range providers {
		fmt.Fprintf(w, "%s: %d spans, %d failed, mean %s\n",
			p.ProviderID, p.Count, p.Failures, p.MeanDuration.Round(time.Microsecond))
	}

	if n := c.Int("recent"); n > 0 {
		records, err := j.Recent(ctx, n)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "Recent spans:")
		for _, r := range records {
			status := "ok"
			if r.Failed {
				status = "failed"
			}
			fmt.Fprintf(w, "  %s %s %s %s query=%016x\n",
				r.End.Format(time.RFC3339), r.Name, status, r.Duration().Round(time.Microsecond), uint64(r.QueryHash))
		}
	}
	return nil
}

func initCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

// completionMonitor signals when the dispatch has completed.
type completionMonitor struct {
	done chan bool
}

func newCompletionMonitor() *completionMonitor {
	return &completionMonitor{done: make(chan bool, 1)}
}

func (m *completionMonitor) Dispatched(query string, providers, batches int) {
	slog.Debug("query dispatched", "query", query, "providers", providers, "batches", batches)
}

func (m *completionMonitor) BatchAccepted(_ string, results int) {
	slog.Debug("batch accepted", "results", results)
}

func (m *completionMonitor) BatchDiscarded(_ string) {}

func (m *completionMonitor) BatchFailed(_ string, err error) {
	slog.Warn("provider batch failed", "err", err)
}

func (m *completionMonitor) ResultsCleared() {}

func (m *completionMonitor) Completed(_ string, discarded bool) {
	select {
	case m.done <- discarded:
	default:
	}
}

// applyConfigLogLevel uses the configured log level unless --log-level was given.
func applyConfigLogLevel(c *cli.Context, cfg *config.Config) {
	if c.IsSet("log-level") {
		return
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return
	}
	slog.SetDefault(newLogger(level))
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLogLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("%w: must be one of debug, info, warn, error", err)
	}

	// Configure slog with the specified level
	slog.SetDefault(newLogger(level))

	return nil
}
