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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/launchpad"
	"github.com/poiesic/launchpad/config"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/engine"
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
		Usage: "Search and launch applications, files and plugin answers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory holding search history and usage (overrides history.data_dir)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search once and print the ranked results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Log per-source result counts at debug level",
					},
				},
			},
			{
				Name:   "rebuild",
				Usage:  "Rebuild the application and file indexes and report the outcome",
				Action: rebuildCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print index sizes and freshness",
				Action: statsCommand,
			},
			{
				Name:   "history",
				Usage:  "Print recent selections, newest first",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of selections to print",
						Value:   20,
					},
				},
			},
			{
				Name:   "top",
				Usage:  "Print the most used applications, ranked by usage and recency",
				Action: topCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of applications to print",
						Value:   10,
					},
				},
			},
			{
				Name:   "run",
				Usage:  "Interactive loop: type a query, then pick a result number to execute it",
				Action: runCommand,
			},
			{
				Name:  "config",
				Usage: "Manage the configuration file",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Write the default configuration unless a file already exists",
						Action: configInitCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing configuration file",
							},
						},
					},
				},
			},
		},
	}
}

// loadConfig reads the file named by --config. A missing file yields the
// defaults so the commands work before "config init" has been run.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
		cfg = config.DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if dir := c.String("data-dir"); dir != "" {
		cfg.History.DataDir = dir
	}
	if cfg.History.DataDir == "" {
		cfg.History.DataDir = config.DefaultDataDir()
	}
	return cfg, nil
}

func openLauncher(c *cli.Context) (*launchpad.Launcher, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	l, err := launchpad.New(c.Context, launchpad.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to start launcher: %w", err)
	}
	return l, nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("search requires a query")
	}

	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	var results []core.SearchResult
	if c.Bool("explain") {
		results = l.SearchWithMonitor(c.Context, query, &engine.LogMonitor{Logger: slog.Default()})
	} else {
		results = l.Search(c.Context, query)
	}
	printResults(c.App.Writer, results)
	return nil
}

func rebuildCommand(c *cli.Context) error {
	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	report := l.Rebuild(c.Context)
	out := c.App.Writer
	fmt.Fprintf(out, "Applications: %d\n", report.Applications)
	fmt.Fprintf(out, "Files: %d\n", report.Files)
	fmt.Fprintf(out, "Duration: %s\n", report.Duration.Round(time.Millisecond))
	if report.AppErr != nil {
		fmt.Fprintf(out, "Application scan failed: %v\n", report.AppErr)
	}
	if report.FileErr != nil {
		fmt.Fprintf(out, "File scan failed: %v\n", report.FileErr)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	stats := l.Stats()
	out := c.App.Writer
	fmt.Fprintf(out, "Applications: %d\n", stats.Applications)
	fmt.Fprintf(out, "Files: %d\n", stats.Files)
	if stats.LastRebuild.IsZero() {
		fmt.Fprintln(out, "Last rebuild: never")
	} else {
		fmt.Fprintf(out, "Last rebuild: %s\n", stats.LastRebuild.Format(time.RFC3339))
	}
	fmt.Fprintf(out, "Stale: %t\n", stats.Stale)
	return nil
}

func historyCommand(c *cli.Context) error {
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	selections, err := l.History(c.Context, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	for _, s := range selections {
		fmt.Fprintf(c.App.Writer, "%s  %-20q %s [%s]\n",
			s.SelectedAt.Format(time.DateTime), s.Query, s.Title, s.Category)
	}
	return nil
}

func topCommand(c *cli.Context) error {
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	results, err := l.MostUsed(c.Context, limit)
	if err != nil {
		return fmt.Errorf("failed to read usage: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.Writer, "No usage recorded")
		return nil
	}
	printResults(c.App.Writer, results)
	return nil
}

func runCommand(c *cli.Context) error {
	l, err := openLauncher(c)
	if err != nil {
		return err
	}
	defer l.Close()

	return runLoop(c.Context, l, os.Stdin, c.App.Writer)
}

func configInitCommand(c *cli.Context) error {
	path := c.String("config")
	out := c.App.Writer

	if c.Bool("force") {
		if err := config.Save(c.Context, path, config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
		return nil
	}

	if _, err := config.LoadOrCreate(c.Context, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration ready at %s\n", path)
	return nil
}

// session is the part of the launcher the interactive loop drives.
type session interface {
	Search(ctx context.Context, query string) []core.SearchResult
	Execute(ctx context.Context, query string, result core.SearchResult) error
}

// runLoop reads queries from in until EOF or "quit". After each result list
// the next line picks a result by number; an empty line skips execution.
func runLoop(ctx context.Context, s session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "query> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "quit" || query == "exit" {
			return nil
		}
		if query == "" {
			continue
		}

		results := s.Search(ctx, query)
		if len(results) == 0 {
			fmt.Fprintln(out, "No results")
			continue
		}
		printResults(out, results)

		fmt.Fprintf(out, "select [1-%d]> ", len(results))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		choice := strings.TrimSpace(scanner.Text())
		if choice == "" {
			continue
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(results) {
			fmt.Fprintf(out, "Invalid selection %q\n", choice)
			continue
		}

		selected := results[n-1]
		if err := s.Execute(ctx, query, selected); err != nil {
			fmt.Fprintf(out, "Failed: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "Executed %s\n", selected.Title)
	}
}

func printResults(out io.Writer, results []core.SearchResult) {
	for i, r := range results {
		fmt.Fprintf(out, "%2d. %.2f  %-24s %s\n", i+1, r.Score, r.Category, r.Title)
		if r.Description != "" {
			fmt.Fprintf(out, "              %s\n", r.Description)
		}
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
