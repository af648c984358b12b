// Package config loads the editor shell settings that feed the document
// lifecycle: cache root, session path, size limits, encoding default,
// syntax-mode overrides and the optional runnability hook.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds the lifecycle-relevant configuration.
type Settings struct {
	// CacheDir is the cache artifact root. Empty means the shell
	// derives a per-user default.
	CacheDir string `toml:"cache_dir"`

	// SessionFile is the session snapshot path. Empty derives a
	// default next to CacheDir.
	SessionFile string `toml:"session_file"`

	// MaxFileSize is the largest file the shell opens, in bytes.
	MaxFileSize int64 `toml:"max_file_size"`

	// Encoding is the default text encoding tag for new documents.
	Encoding string `toml:"encoding"`

	// ModeOverrides maps extensions (without dot) to syntax modes,
	// overriding built-in resolution.
	ModeOverrides map[string]string `toml:"mode_overrides"`

	// RunExtensions lists extensions (without dot) treated as runnable
	// in addition to the built-in allow-list.
	RunExtensions []string `toml:"run_extensions"`

	// HookFile is an optional Lua script consulted on runnability
	// checks.
	HookFile string `toml:"hook_file"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		MaxFileSize: 10 * 1024 * 1024,
		Encoding:    "utf-8",
	}
}

// Load reads settings from a TOML file, applying defaults for anything
// unset. A missing file is not an error: defaults apply.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if s.MaxFileSize <= 0 {
		s.MaxFileSize = Default().MaxFileSize
	}
	if s.Encoding == "" {
		s.Encoding = Default().Encoding
	}
	return s, nil
}

// RunExtSet returns the configured runnable extensions as a lookup set,
// nil when none are configured.
func (s Settings) RunExtSet() map[string]bool {
	if len(s.RunExtensions) == 0 {
		return nil
	}
	set := make(map[string]bool, len(s.RunExtensions))
	for _, ext := range s.RunExtensions {
		set[ext] = true
	}
	return set
}
