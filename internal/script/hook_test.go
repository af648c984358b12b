package script

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDecides(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		path        string
		want        bool
		wantDecided bool
	}{
		{
			name:        "returns true",
			source:      `function can_run(path) return true end`,
			path:        "main.go",
			want:        true,
			wantDecided: true,
		},
		{
			name:        "returns false",
			source:      `function can_run(path) return false end`,
			path:        "index.html",
			want:        false,
			wantDecided: true,
		},
		{
			name:        "returns nil leaves decision open",
			source:      `function can_run(path) return nil end`,
			path:        "notes.txt",
			wantDecided: false,
		},
		{
			name:        "no function defined",
			source:      `x = 1`,
			path:        "notes.txt",
			wantDecided: false,
		},
		{
			name:        "inspects the path",
			source:      `function can_run(path) return path:match("%.sh$") ~= nil end`,
			path:        "deploy.sh",
			want:        true,
			wantDecided: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(tt.source)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer h.Close()

			got, decided := h.Check(tt.path)
			if decided != tt.wantDecided {
				t.Fatalf("Check(%q) decided = %v, want %v", tt.path, decided, tt.wantDecided)
			}
			if decided && got != tt.want {
				t.Errorf("Check(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckScriptError(t *testing.T) {
	h, err := New(`function can_run(path) error("boom") end`)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer h.Close()

	if _, decided := h.Check("main.go"); decided {
		t.Error("Check() decided = true after script error, want undecided")
	}
}

func TestNewBadSource(t *testing.T) {
	if _, err := New(`function can_run(`); err == nil {
		t.Error("New() error = nil for invalid source, want parse error")
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hook.lua")
	if err := os.WriteFile(path, []byte(`function can_run(path) return true end`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	h, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	defer h.Close()

	if got, decided := h.Check("a.txt"); !decided || !got {
		t.Errorf("Check() = %v, %v, want true, true", got, decided)
	}
}

func TestNewFromFileMissing(t *testing.T) {
	if _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("NewFromFile() error = nil for missing file, want error")
	}
}
