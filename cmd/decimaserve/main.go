// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the décima analysis server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

DecimaServe counts syllables, checks the rhyme scheme and suggests rhyming
words for décimas, ten-verse Spanish poems of eight syllables per verse. It
can operate as a MessagePack IPC server for integration with editors, or as
an interactive CLI composer for testing and debugging.

# Usage

Start the server with default settings:

	decimaserve

Use a custom config and enable debug mode:

	decimaserve -config ./decimaserve.toml -d

Compose interactively, with the reference verses marked in the scheme:

	decimaserve -c -scheme abBAAcCdDC

# Configuration

Runtime configuration is a TOML file, created with defaults if missing:

	[form]
	scheme = "ABBAACCDDC"
	slots = 10
	target_syllables = 8

	[rhyme]
	group_limit = 5
	last_word_limit = 8
	min_anchor_len = 3
	lexicon_file = ""
	dictionary_file = ""
	cache_size = 512

	[store]
	backend = "file"
	path = ""
	namespace = "saved_decimas"

	[cli]
	show_groups = true
	show_links = false

lexicon_file replaces the built-in ending table (a .toml table or a .txt
word list) and dictionary_file is a word list chained after it.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout; see package
server for the message types.

	{"id": "a1", "action": "analyze", "v": ["quiero volar muy alto", ...], "a": 3}

# Command Line Flags

	-config string
	    Path to a config file (default: user config dir)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-scheme string
	    Rhyme scheme override, e.g. abBAAcCdDC
	-store string
	    Store backend override: file, sqlite or memory
	-no-filter
	    Disable rhyme query filtering in CLI mode
	-rebuild-config
	    Rewrite the default config file and exit
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/decimaserve/internal/cli"
	"github.com/bastiangx/decimaserve/internal/utils"
	"github.com/bastiangx/decimaserve/pkg/config"
	"github.com/bastiangx/decimaserve/pkg/decima"
	"github.com/bastiangx/decimaserve/pkg/dictionary"
	"github.com/bastiangx/decimaserve/pkg/lexicon"
	"github.com/bastiangx/decimaserve/pkg/rhyme"
	"github.com/bastiangx/decimaserve/pkg/server"
	"github.com/bastiangx/decimaserve/pkg/store"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "decimaserve"
	gh      = "https://github.com/bastiangx/decimaserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cleanup()
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config file (default: user config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	schemeFlag := flag.String("scheme", "", "Rhyme scheme override, e.g. abBAAcCdDC")
	storeFlag := flag.String("store", "", "Store backend override: file, sqlite or memory")
	noFilter := flag.Bool("no-filter", false, "Disable rhyme query filtering in CLI mode (DBG only)")
	rebuild := flag.Bool("rebuild-config", false, "Rewrite the default config file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetOutput(os.Stderr)

	if *rebuild {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rebuilt", "path", config.GetActiveConfigPath(""))
		return
	}

	appConfig, loadedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(loadedPath))

	if *schemeFlag != "" {
		appConfig.Form.Scheme = *schemeFlag
	}
	if *storeFlag != "" {
		appConfig.Store.Backend = *storeFlag
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v. Relative paths resolve against the working dir.", err)
	}

	engine, err := buildEngine(appConfig, pathResolver)
	if err != nil {
		log.Fatalf("Failed to init engine: %v", err)
	}

	st, closeStore := openStore(appConfig.Store, pathResolver)
	sigHandler(func() { closeStore() })
	defer closeStore()

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(engine, st, cli.Options{
			ShowGroups: appConfig.CLI.ShowGroups,
			ShowLinks:  appConfig.CLI.ShowLinks,
			NoFilter:   *noFilter,
		})
		if err := inputHandler.Start(); err != nil {
			log.Errorf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, st)
	showStartupInfo(engine.Form())

	if err := srv.Start(); err != nil {
		log.Errorf("Server stopped: %v", err)
	}
}

// buildEngine wires the lexicon, suggester and form from config.
func buildEngine(cfg *config.Config, pr *utils.PathResolver) (*decima.Engine, error) {
	form, err := decima.NewForm(cfg.Form.Scheme, cfg.Form.Slots, cfg.Form.TargetSyllables)
	if err != nil {
		log.Warnf("Invalid form: %v. Using the default form...", err)
		form = decima.DefaultForm()
	}

	var primary lexicon.Source = lexicon.Default()
	if path := resolve(pr, cfg.Rhyme.LexiconFile); path != "" {
		src, err := dictionary.LoadSource(path)
		if err != nil {
			return nil, fmt.Errorf("lexicon file: %w", err)
		}
		primary = src
	}

	sources := lexicon.Chain{primary}
	if path := resolve(pr, cfg.Rhyme.DictionaryFile); path != "" {
		words, err := dictionary.LoadWordList(path)
		if err != nil {
			return nil, fmt.Errorf("dictionary file: %w", err)
		}
		log.Debugf("Chained word list %s: %d words", path, words.Len())
		sources = append(sources, words)
	}

	var source lexicon.Source = primary
	if len(sources) > 1 {
		source = sources
	}

	suggester := rhyme.New(source, rhyme.Options{
		GroupLimit:    cfg.Rhyme.GroupLimit,
		LastWordLimit: cfg.Rhyme.LastWordLimit,
		MinAnchorLen:  cfg.Rhyme.MinAnchorLen,
	})

	var opts []decima.Option
	if cfg.Rhyme.CacheSize > 0 {
		opts = append(opts, decima.WithCountCache(decima.NewCountCache(cfg.Rhyme.CacheSize)))
	}
	return decima.New(form, suggester, opts...), nil
}

// resolve finds a configured data file, logging and ignoring missing ones.
func resolve(pr *utils.PathResolver, name string) string {
	if name == "" {
		return ""
	}
	if pr == nil {
		return name
	}
	path, err := pr.ResolveDataFile(name)
	if err != nil {
		log.Warnf("Data file %s not found: %v", name, err)
		return name
	}
	return path
}

// openStore opens the configured store, falling back to memory so the
// server keeps answering analysis requests.
func openStore(cfg config.StoreConfig, pr *utils.PathResolver) (store.Store, func() error) {
	path := cfg.Path
	if path == "" && pr != nil {
		switch cfg.Backend {
		case store.BackendSQLite:
			path = pr.GetStorePath("decimas.db")
		case store.BackendFile, "":
			path = filepath.Dir(pr.GetStorePath("saved_decimas.msgpack"))
		}
	}

	st, closeFn, err := store.Open(cfg.Backend, path, cfg.Namespace)
	if err != nil {
		log.Warnf("Failed to open %s store at %s: %v. Saved compositions will not persist.", cfg.Backend, path, err)
		st, closeFn, _ = store.Open(store.BackendMemory, "", cfg.Namespace)
	}
	log.Debugf("Store: backend=%s path=%s namespace=%s", cfg.Backend, path, cfg.Namespace)
	return st, closeFn
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ DecimaServe ] Syllables and rhymes for your décimas")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(form decima.Form) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "=============")
	fmt.Fprintln(os.Stderr, " DecimaServe ")
	fmt.Fprintln(os.Stderr, "=============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("form: ( %s, %d syllables )", form.Scheme, form.TargetSyllables)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "=============")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
