// Package mode resolves syntax modes for document names.
//
// Resolution consults the user override table first (keyed by extension),
// then a built-in extension table. There is no failure case: unknown
// names fall back to plain text.
package mode

import (
	"strings"
	"sync"
)

// Default is the mode used when nothing matches.
const Default = "text"

// Resolver maps file names to syntax mode identifiers.
//
// Resolver is safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	overrides map[string]string
}

// NewResolver creates a resolver with the given user overrides
// (extension without dot -> mode identifier). overrides may be nil.
func NewResolver(overrides map[string]string) *Resolver {
	r := &Resolver{overrides: make(map[string]string)}
	for ext, m := range overrides {
		r.overrides[strings.ToLower(ext)] = m
	}
	return r
}

// SetOverride installs or replaces a user override for an extension.
// An empty mode removes the override.
func (r *Resolver) SetOverride(ext, mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext = strings.ToLower(ext)
	if mode == "" {
		delete(r.overrides, ext)
		return
	}
	r.overrides[ext] = mode
}

// ForPath returns the mode identifier for a file name or path.
func (r *Resolver) ForPath(name string) string {
	ext := Ext(name)

	r.mu.RLock()
	override, ok := r.overrides[ext]
	r.mu.RUnlock()
	if ok {
		return override
	}

	switch ext {
	case "html", "htm", "xhtml":
		return "html"
	case "js", "mjs", "cjs", "jsx":
		return "javascript"
	case "ts", "tsx":
		return "typescript"
	case "css":
		return "css"
	case "scss", "sass":
		return "scss"
	case "less":
		return "less"
	case "md", "markdown":
		return "markdown"
	case "json":
		return "json"
	case "xml", "svg":
		return "xml"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	case "py":
		return "python"
	case "go":
		return "golang"
	case "rs":
		return "rust"
	case "rb":
		return "ruby"
	case "php":
		return "php"
	case "java":
		return "java"
	case "c", "h":
		return "c_cpp"
	case "cpp", "cc", "cxx", "hpp":
		return "c_cpp"
	case "sh", "bash":
		return "sh"
	case "lua":
		return "lua"
	case "sql":
		return "sql"
	case "txt", "":
		return Default
	default:
		return Default
	}
}

// Ext returns the lower-cased extension of a name, without the dot.
func Ext(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		switch name[i] {
		case '.':
			return strings.ToLower(name[i+1:])
		case '/', '\\':
			return ""
		}
	}
	return ""
}
