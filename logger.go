package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// multiHandler dispatches log records to a console and a file handler
// based on level. console may be nil while the TUI owns the terminal.
type multiHandler struct {
	console slog.Handler
	file    slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return (h.console != nil && h.console.Enabled(ctx, level)) || h.file.Enabled(ctx, level)
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.file.Enabled(ctx, r.Level) {
		if err := h.file.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	if h.console != nil && h.console.Enabled(ctx, r.Level) {
		if err := h.console.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &multiHandler{file: h.file.WithAttrs(attrs)}
	if h.console != nil {
		next.console = h.console.WithAttrs(attrs)
	}
	return next
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	next := &multiHandler{file: h.file.WithGroup(name)}
	if h.console != nil {
		next.console = h.console.WithGroup(name)
	}
	return next
}

// initLogger sends debug and above as JSON to a rotated file under dir.
// With console set, errors are also written to stderr as text. An empty
// dir disables the file sink. Returns a cleanup function closing the file.
func initLogger(dir string, console bool) (func(), error) {
	var fileOut io.Writer = io.Discard
	var lj *lumberjack.Logger
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		lj = &lumberjack.Logger{
			Filename:   filepath.Join(dir, "dropmap.log"),
			MaxSize:    10, // MB
			MaxBackups: 3,
			LocalTime:  true,
		}
		fileOut = lj
	}

	multi := &multiHandler{
		file: slog.NewJSONHandler(fileOut, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}),
	}
	if console {
		multi.console = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		})
	}

	slog.SetDefault(slog.New(multi))

	cleanup := func() {
		if lj == nil {
			return
		}
		if err := lj.Close(); err != nil {
			slog.Error("Failed to close log file", "error", err)
		}
	}
	return cleanup, nil
}
