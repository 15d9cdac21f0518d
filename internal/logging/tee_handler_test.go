package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

// captureHandler records everything at or above its level.
type captureHandler struct {
	level    slog.Level
	messages []string
}

func (h *captureHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *captureHandler) Handle(_ context.Context, rec slog.Record) error {
	h.messages = append(h.messages, rec.Message)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func TestTeeHandler_RoutesByLevel(t *testing.T) {
	stdout := &captureHandler{level: slog.LevelInfo}
	db := &captureHandler{level: slog.LevelError}
	tee := NewTeeHandler(stdout, db)

	ctx := context.Background()
	info := slog.NewRecord(time.Now(), slog.LevelInfo, "request handled", 0)
	errRec := slog.NewRecord(time.Now(), slog.LevelError, "query failed", 0)

	if err := tee.Handle(ctx, info); err != nil {
		t.Fatal(err)
	}
	if err := tee.Handle(ctx, errRec); err != nil {
		t.Fatal(err)
	}

	if len(stdout.messages) != 2 {
		t.Errorf("stdout got %d records, want 2", len(stdout.messages))
	}
	if len(db.messages) != 1 || db.messages[0] != "query failed" {
		t.Errorf("db sink got %v, want only the error record", db.messages)
	}
}

func TestTeeHandler_EnabledIfAnySinkIs(t *testing.T) {
	tee := NewTeeHandler(
		&captureHandler{level: slog.LevelError},
		&captureHandler{level: slog.LevelDebug},
	)
	if !tee.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(debug) = false with a debug sink attached")
	}

	quiet := NewTeeHandler(&captureHandler{level: slog.LevelError})
	if quiet.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(info) = true with only an error sink")
	}
}
