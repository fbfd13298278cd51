// Copyright 2025 The RankServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the candidate ranking server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

RankServe ranks code completion candidates: it filters a candidate set by
the typed prefix, classifies each survivor along semantic dimensions, and
selects the top results with a partial heapsort. It can operate as a
MessagePack IPC server for integration with editor toolchains, or as a CLI
application for testing and debugging ranking behavior against captured
candidate dumps.

The server mode keeps one session per cursor position and memoizes the
per-candidate classification, so repeated keystrokes at the same position
only pay for prefix filtering and top-K selection.

# Usage

Start the server with default settings:

	rankserve

Use custom data directory and enable debug mode:

	rankserve -data /path/to/tables -d

Run in CLI mode against a captured candidate dump:

	rankserve -c -dump candidates.toml -limit 10

The data directory may contain popularity tables named pop_0001.bin,
pop_0002.bin, etc. These files hold per-scope symbol usage counts and feed
the classifier's popularity dimension when present.

# Configuration

Runtime configuration is managed through a TOML file that supports server
parameters, ranking settings, and CLI defaults:

	[server]
	max_results = 256
	min_prefix = 0
	max_prefix = 80
	annotate_results = true

	[ranking]
	arena_pages = 8
	arena_page_size = 16384
	classifier_workers = 4

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Ranking
requests are processed synchronously with timing information included in
responses.

Send a ranking request:

	{"id": "req1", "cmd": "complete", "path": "main.swift", "ln": 10, "col": 4, "p": "app", "l": 24}

Receive winners in display order:

	{"id": "req1", "r": [{"lb": "append(_:)", "in": "append(", "g": 0}], "c": 1, "n": 1204, "t": 3}

Config requests allow runtime adjustment of the result cap and debug mode:

	{"id": "cfg1", "cmd": "config", "max_results": 64, "debug": true}

# Server Mode

The default mode starts a MessagePack IPC server that processes ranking
requests from stdin and writes responses to stdout. This design enables
integration with editors and analyzer frontends through process
communication.

	srv := server.NewServer(backend, matcher, tables, config, configPath)
	err := srv.Start(ctx)

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
ranking behavior. It loads a candidate dump, reads prefixes from stdin,
and displays the ranked winners with their buckets and scores.

	inputHandler := cli.NewInputHandler(sess, minLen, maxLen, limit, showBreakdown)
	err := inputHandler.Start()

This mode is primarily intended for development: capture a candidate set,
then replay prefixes against it to see how bucket assignment and scoring
shift the order.

# Command Line Flags

The following flags control application behavior:

	-data string
	    Directory containing popularity tables (default "data/")
	-dump string
	    Candidate dump file for CLI mode
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of results to display (default from config)
	-prmin int
	    Minimum prefix length for ranking
	-prmax int
	    Maximum prefix length for ranking
	-breakdown
	    Show the per-result bucket and score breakdown

The application automatically resolves data and config paths relative to
the executable location, supporting both development and production
deployments.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/rankserve/internal/cli"
	"github.com/bastiangx/rankserve/internal/logger"
	"github.com/bastiangx/rankserve/internal/utils"
	"github.com/bastiangx/rankserve/pkg/arena"
	"github.com/bastiangx/rankserve/pkg/config"
	"github.com/bastiangx/rankserve/pkg/fuzzy"
	"github.com/bastiangx/rankserve/pkg/popularity"
	"github.com/bastiangx/rankserve/pkg/server"
	"github.com/bastiangx/rankserve/pkg/session"
)

const (
	Version = "0.3.0-beta"
	AppName = "rankserve"
	gh      = "https://github.com/bastiangx/rankserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing popularity tables")
	dumpFile := flag.String("dump", "", "Candidate dump file (TOML) for CLI mode")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of results to display")
	minPrefix := flag.Int("prmin", defaultConfig.Server.MinPrefix, "Minimum prefix length for ranking")
	maxPrefix := flag.Int("prmax", defaultConfig.Server.MaxPrefix, "Maximum prefix length for ranking")
	breakdown := flag.Bool("breakdown", defaultConfig.CLI.ShowBreakdown, "Show per-result bucket and score breakdown (DBG only)")

	flag.Parse()

	if *showVersion {
		logger := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ RankServe ] Ranks code completions really Fast!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	// Initialize path resolver for robust path handling
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
		// Arena misuse should not bring down a production server.
		arena.StrictChecks = false
	}

	configPath, err := pathResolver.GetConfigPath("config.toml")
	if err != nil {
		log.Fatalf("Failed to determine config path: (%v)", err)
	}
	log.Debugf("Using config file: (%s)", configPath)

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Pathfinder for the popularity tables
	var tables *popularity.Table
	if appConfig.Popularity.Enabled {
		resolvedDataDir, err := pathResolver.GetDataDir(*dataDir)
		if err != nil {
			log.Fatalf("Failed to resolve data dir:(%v)", err)
		}
		log.Debugf("Using data dir at: %s", resolvedDataDir)

		tables, err = popularity.LoadDir(resolvedDataDir)
		if err != nil {
			log.Warnf("Failed to load popularity tables: %v. Ranking without the popularity signal...", err)
			tables = nil
		}
		if tables != nil {
			stats := tables.Stats()
			log.Debugf("Popularity tables loaded: %d symbols, max count %d",
				stats["symbols"], stats["maxCount"])
		}
	}

	matcher := fuzzy.New()

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		if *dumpFile == "" {
			log.Fatal("CLI mode needs a candidate dump, pass one with -dump")
		}

		backend, err := cli.LoadCandidateDump(*dumpFile)
		if err != nil {
			log.Fatalf("Failed to load candidate dump: %v", err)
		}

		opts := sessionOptions(appConfig)
		sess, err := session.New(context.Background(), backend, matcher, tables,
			session.Location{Path: *dumpFile}, opts)
		if err != nil {
			log.Fatalf("Failed to build session: %v", err)
		}
		if err := sess.WarmUp(context.Background()); err != nil {
			log.Fatalf("Failed to classify candidates: %v", err)
		}

		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"breakdown", *breakdown)

		inputHandler := cli.NewInputHandler(sess, *minPrefix, *maxPrefix, *limit, *breakdown)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")

	var backend session.Backend = &session.SliceBackend{}
	if *dumpFile != "" {
		backend, err = cli.LoadCandidateDump(*dumpFile)
		if err != nil {
			log.Fatalf("Failed to load candidate dump: %v", err)
		}
	} else {
		log.Warn("No candidate dump specified, serving an empty candidate set...")
	}

	srv := server.NewServer(backend, matcher, tables, appConfig, configPath)

	showStartupInfo(configPath)

	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		MaxResults:      cfg.Server.MaxResults,
		AnnotateResults: cfg.Server.AnnotateResults,
		SemanticDebug:   cfg.Server.SemanticDebug,
		Workers:         cfg.Ranking.ClassifierWorkers,
		ArenaPages:      cfg.Ranking.ArenaPages,
		ArenaPageSize:   cfg.Ranking.ArenaPageSize,
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(configPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" RankServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("config: ( %s )", configPath)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
