// Package main is the sheaf maintenance tool: it inspects session
// snapshots, validates runnability hooks and prunes cache artifacts
// that no session tab references anymore.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sheafdev/sheaf/internal/config"
	"github.com/sheafdev/sheaf/internal/logging"
	"github.com/sheafdev/sheaf/internal/script"
	"github.com/sheafdev/sheaf/internal/session"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath  string
	SessionPath string
	CacheDir    string
	HookPath    string

	ShowSession bool
	CleanCache  bool
	DryRun      bool
	LogLevel    string
	LogFile     string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	level := slog.LevelInfo
	switch opts.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", opts.LogLevel)
		return 1
	}

	logger, closeLog, err := logging.New(logging.Options{Level: level, FilePath: opts.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sessionPath := opts.SessionPath
	if sessionPath == "" {
		sessionPath = cfg.SessionFile
	}
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = cfg.CacheDir
	}

	if opts.HookPath == "" {
		opts.HookPath = cfg.HookFile
	}
	if opts.HookPath != "" {
		if err := checkHook(opts.HookPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: hook %s: %v\n", opts.HookPath, err)
			return 1
		}
		fmt.Printf("hook %s: ok\n", opts.HookPath)
	}

	if opts.ShowSession {
		if sessionPath == "" {
			fmt.Fprintln(os.Stderr, "Error: no session file configured")
			return 1
		}
		if err := showSession(sessionPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.CleanCache {
		if sessionPath == "" || cacheDir == "" {
			fmt.Fprintln(os.Stderr, "Error: cache cleanup needs both a session file and a cache directory")
			return 1
		}
		if err := cleanCache(sessionPath, cacheDir, opts.DryRun); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.SessionPath, "session", "", "Path to session file (overrides config)")
	flag.StringVar(&opts.CacheDir, "cache", "", "Cache artifact directory (overrides config)")
	flag.StringVar(&opts.HookPath, "hook", "", "Validate a runnability hook script")
	flag.BoolVar(&opts.ShowSession, "tabs", false, "Print the tabs of the saved session")
	flag.BoolVar(&opts.CleanCache, "prune", false, "Delete cache artifacts no session tab references")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "With -prune, only report what would be deleted")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Also write JSON logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sheaf - document lifecycle maintenance tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage: sheaf [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sheaf -tabs -session ~/.sheaf/session.json   List saved tabs\n")
		fmt.Fprintf(os.Stderr, "  sheaf -prune -c ~/.sheaf/config.toml         Prune orphaned cache artifacts\n")
		fmt.Fprintf(os.Stderr, "  sheaf -hook hooks/canrun.lua                 Validate a hook script\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("sheaf %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}

// checkHook loads the script and exercises the runnability function
// once so syntax and runtime errors surface before the editor ships
// the hook.
func checkHook(path string) error {
	h, err := script.NewFromFile(path)
	if err != nil {
		return err
	}
	defer h.Close()

	h.Check("probe.txt")
	return nil
}

func showSession(path string) error {
	store := session.NewStore(vfs.NewOS(), path)
	snap, err := store.Load()
	if err != nil {
		return err
	}

	if len(snap.Tabs) == 0 {
		fmt.Println("no saved tabs")
		return nil
	}

	for _, tab := range snap.Tabs {
		marker := " "
		if tab.ID == snap.ActiveID {
			marker = "*"
		}
		state := ""
		if tab.Unsaved {
			state = " [unsaved]"
		}
		location := tab.URI
		if location == "" {
			location = "(no location)"
		}
		fmt.Printf("%s %s  %s%s\n", marker, tab.Name, location, state)
	}
	return nil
}

// cleanCache removes cache artifacts whose key does not belong to any
// session tab. Keys are either a bare entity id (scratch content) or a
// scheme-prefixed id (remote snapshot); both forms count as referenced.
func cleanCache(sessionPath, cacheDir string, dryRun bool) error {
	store := session.NewStore(vfs.NewOS(), sessionPath)
	snap, err := store.Load()
	if err != nil {
		return err
	}

	ids := make(map[string]bool, len(snap.Tabs))
	for _, tab := range snap.Tabs {
		ids[tab.ID] = true
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if referenced(entry.Name(), ids) {
			continue
		}

		path := filepath.Join(cacheDir, entry.Name())
		if dryRun {
			fmt.Printf("would delete %s\n", path)
			removed++
			continue
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("cache prune failed", "path", path, "error", err)
			continue
		}
		slog.Debug("pruned cache artifact", "path", path)
		removed++
	}

	if dryRun {
		fmt.Printf("%d orphaned artifacts\n", removed)
	} else {
		fmt.Printf("deleted %d orphaned artifacts\n", removed)
	}
	return nil
}

// referenced reports whether a cache key belongs to a live entity id,
// either directly or through a scheme prefix.
func referenced(key string, ids map[string]bool) bool {
	if ids[key] {
		return true
	}
	// Remote snapshot keys carry a scheme prefix before the first dash;
	// schemes never contain dashes themselves.
	if i := strings.Index(key, "-"); i > 0 && i < len(key)-1 {
		return ids[key[i+1:]]
	}
	return false
}
