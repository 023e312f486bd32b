// Copyright 2025 The Stache Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the stache placeholder completion engine.

Note: This is a BETA release. APIs and functionality may rapidly change.

Stache recognizes {{...}} placeholders in template text, highlights them and
suggests catalog entries (variables such as VISITOR.name and functions such as
eq a='' b='') while the cursor sits inside an open placeholder. It runs as a
MessagePack IPC server for editor plugins, as a language server over stdio or
WebSocket, or as an interactive CLI for testing.

# Usage

Start the IPC server with the built-in catalog:

	stache

Load a custom catalog and enable debug logging:

	stache -catalog placeholders.yaml -d

Serve LSP over stdio, or over WebSocket:

	stache -lsp
	stache -ws 127.0.0.1:7998

Run the CLI:

	stache -c -limit 5

# Configuration

Runtime configuration lives in a TOML file, created with defaults when
missing:

	[server]
	max_limit = 64
	max_text_length = 1048576

	[completion]
	preserve_selection = false

	[popup]
	line_height_offset = 24.0
	margin = 16.0
	min_width = 380.0

	[catalog]
	path = ""

	[lsp]
	ws_addr = ""

	[cli]
	default_limit = 10

A file that fails to decode is salvaged section by section. Setting
lsp.ws_addr makes WebSocket LSP the default mode.

# IPC Protocol

Requests and responses are MessagePack maps on stdin/stdout. See package
server for the full set of actions:

	{"id": "1", "a": "complete", "sid": "ed", "t": "Hi {{VIS", "c": 8}
	{"id": "1", "o": true, "q": "vis", "f": 5, "to": 8, "s": [{"v": "VISITOR.name", ...}], "sel": 0, "n": 3, "t": 41}

# Command Line Flags

	-version     Show current version
	-d           Enable debug logging
	-c           Run the interactive CLI
	-lsp         Serve LSP over stdio
	-ws string   Serve LSP over WebSocket on this address
	-catalog     Catalog file (.toml, .yaml, .yml or .msgpack)
	-config      Path to a custom config file
	-limit int   Suggestions shown by the CLI and LSP

Logs always go to stderr.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/stache/internal/cli"
	"github.com/bastiangx/stache/internal/logger"
	"github.com/bastiangx/stache/internal/lsp"
	"github.com/bastiangx/stache/internal/utils"
	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/config"
	"github.com/bastiangx/stache/pkg/server"
	"github.com/bastiangx/stache/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	gh      = "https://github.com/bastiangx/stache"
)

// main only wires packages together and picks a mode.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	lspMode := flag.Bool("lsp", false, "Serve LSP over stdio")
	wsAddr := flag.String("ws", "", "Serve LSP over WebSocket on this address (e.g. 127.0.0.1:7998)")
	catalogPath := flag.String("catalog", "", "Catalog file to load instead of the built-in one")
	configPath := flag.String("config", "", "Path to custom config file")
	limit := flag.Int("limit", 0, "Number of suggestions to show (default from config)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)
	if *debugMode {
		if pr, err := utils.NewPathResolver(); err == nil {
			info := pr.GetRuntimeInfo()
			log.Debug("Runtime", "os", info["os"], "arch", info["arch"], "config_dir", pr.GetConfigDir(), "exec_dir", info["executable_dir"])
		}
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activeConfigPath))

	cat := loadCatalog(*catalogPath, appConfig.Catalog.Path)
	completer := suggest.NewCompleter(cat)
	log.Debug("Completer ready", "items", cat.Len(), "categories", len(cat.Categories()))

	switch {
	case *cliMode:
		n := *limit
		if n <= 0 {
			n = appConfig.CLI.DefaultLimit
		}
		log.Debug("Input info:", "limit", n, "preserveSelection", appConfig.Completion.PreserveSelection)
		if err := cli.NewInputHandler(completer, appConfig.SessionOptions(n)).Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}

	case *lspMode:
		opts := lsp.Options{Version: Version, Limit: *limit, Debug: *debugMode}
		if err := lsp.ServeStdio(completer, opts); err != nil {
			log.Fatalf("LSP error: %v", err)
		}

	case *wsAddr != "" || appConfig.LSP.WSAddr != "":
		addr := *wsAddr
		if addr == "" {
			addr = appConfig.LSP.WSAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		opts := lsp.Options{Version: Version, Limit: *limit, Debug: *debugMode}
		if err := lsp.ServeWebSocket(ctx, addr, completer, opts); err != nil {
			log.Fatalf("LSP WebSocket error: %v", err)
		}

	default:
		sigHandler()
		srv := server.NewServer(completer, server.Options{
			MaxLimit:      appConfig.Server.MaxLimit,
			MaxTextLength: appConfig.Server.MaxTextLength,
			Session:       appConfig.SessionOptions(0),
		})
		log.Debugf("spawning IPC, pid [ %d ]", os.Getpid())
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}
}

// loadCatalog prefers the -catalog flag over the config entry. Relative paths
// are looked up next to the config and the executable too.
func loadCatalog(flagPath, configPath string) *catalog.Catalog {
	path := flagPath
	if path == "" {
		path = configPath
	}
	if path == "" {
		return catalog.Default()
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		return catalog.LoadOrDefault(path)
	}
	resolved, err := pathResolver.ResolveCatalogPath(path)
	if err != nil {
		log.Warnf("Catalog %s not found (%v). Using built-in catalog...", path, err)
		return catalog.Default()
	}
	log.Debugf("Using catalog at: %s", resolved)
	return catalog.LoadOrDefault(resolved)
}

// sigHandler exits quietly on interrupt while the IPC loop blocks on stdin.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ stache ] Placeholder completion for templates")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}
