package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerWritesMessageFrames(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering SVG")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering SVG") {
		t.Errorf("spinner output missing its message:\n%q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("spinner did not clear its line on stop")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer

	s := newSpinner(ctx, &buf, "Rendering SVG")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent context cancel")
	}
}

func TestSpinnerCancelledByDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var buf bytes.Buffer

	s := newSpinner(ctx, &buf, "Rendering SVG")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after deadline passed")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering SVG")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerNotCancelledBeforeStop(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering SVG")
	s.Start()
	time.Sleep(50 * time.Millisecond)

	// The export path checks Cancelled before stopping, to tell a
	// user interrupt apart from a finished render.
	if s.Cancelled() {
		t.Error("Cancelled() = true while the spinner is still running")
	}
	s.Stop()
}
