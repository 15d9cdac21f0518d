package logging

import (
	"context"
	"log/slog"
)

// TeeHandler duplicates each record across a set of sinks, so one log call
// reaches both stdout and the system_logs table. Sink failures do not stop
// delivery to the remaining sinks; the first failure is reported.
type TeeHandler struct {
	sinks []slog.Handler
}

func NewTeeHandler(sinks ...slog.Handler) *TeeHandler {
	return &TeeHandler{sinks: sinks}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range t.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *TeeHandler) Handle(ctx context.Context, rec slog.Record) error {
	var firstErr error
	for _, sink := range t.sinks {
		if !sink.Enabled(ctx, rec.Level) {
			continue
		}
		if err := sink.Handle(ctx, rec.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(t.sinks))
	for i, sink := range t.sinks {
		sinks[i] = sink.WithAttrs(attrs)
	}
	return &TeeHandler{sinks: sinks}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(t.sinks))
	for i, sink := range t.sinks {
		sinks[i] = sink.WithGroup(name)
	}
	return &TeeHandler{sinks: sinks}
}
