package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerWritesReplayLines(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Infof("Replaying %s", "synth-patch.yaml")

	out := buf.String()
	if !strings.Contains(out, "synth-patch.yaml") {
		t.Errorf("log line missing the script name:\n%q", out)
	}
	// Timestamps carry sub-second digits so frame timings stay legible.
	if !strings.Contains(out, ".") {
		t.Errorf("log line missing a fractional timestamp:\n%q", out)
	}
}

func TestNewLoggerLevelFilter(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "replay summary at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("Replayed 4 frames") },
			wantLog: true,
		},
		{
			name:    "per-frame detail hidden at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("frame 2: 2 nodes, 1 connection") },
			wantLog: false,
		},
		{
			name:    "per-frame detail shown with verbose",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("frame 2: 2 nodes, 1 connection") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	prog.done("Replayed 240 frames")

	out := buf.String()
	if !strings.Contains(out, "Replayed 240 frames") {
		t.Errorf("progress line missing its message:\n%q", out)
	}
	if !strings.Contains(out, "(") || !strings.Contains(out, ")") {
		t.Errorf("progress line missing the elapsed duration:\n%q", out)
	}
}

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)

	ctx := withLogger(context.Background(), logger)
	got := loggerFromContext(ctx)
	if got != logger {
		t.Fatal("loggerFromContext returned a different logger")
	}

	got.Debug("replay primed")
	if buf.Len() == 0 {
		t.Error("retrieved logger did not write to the original buffer")
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	// Commands run their replay even when no logger was attached.
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext returned nil for a bare context")
	}
}
