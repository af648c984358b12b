// Package logging builds the shared structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum level to emit. Defaults to Info.
	Level slog.Level

	// FilePath, when set, adds a JSON log file alongside the terminal
	// handler.
	FilePath string

	// Terminal receives the human-readable stream. Defaults to stderr.
	Terminal io.Writer
}

// New builds a logger that fans out to a text terminal handler and,
// when a file path is given, a JSON file handler. The returned closer
// releases the file; it is a no-op when no file was opened.
func New(opts Options) (*slog.Logger, func() error, error) {
	term := opts.Terminal
	if term == nil {
		term = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(term, &slog.HandlerOptions{Level: opts.Level}),
	}
	closer := func() error { return nil }

	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: opts.Level}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
