package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScript = `
name: smoke
graph: patch
size: [800, 600]
pin_colors: ["#E49A2D", "#2D9AE4"]
nodes:
  - key: osc
    pos: [-180, -40]
    header: Oscillator
    outputs:
      - {key: out, type: 0}
  - key: filter
    pos: [120, 60]
    inputs:
      - {key: cutoff, type: 1}
    outputs:
      - {key: out, type: 1}
connect:
  - {from: osc.out, to: filter.cutoff}
frames:
  - repeat: 3
`

// writeTestScript writes the shared fixture script to a temp file.
func writeTestScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	if err := os.WriteFile(path, []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "nodewire" {
		t.Errorf("Use = %q, want nodewire", root.Use)
	}

	want := []string{"sim", "export", "serve", "tui", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if strings.HasPrefix(cmd.Use, name) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandHelp(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(buf.String(), "sim") {
		t.Error("help output should list the sim command")
	}
}

func TestSimCommand(t *testing.T) {
	path := writeTestScript(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"sim", path, "--quiet"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("sim: %v", err)
	}
}

func TestSimCommandMissingFile(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"sim", "does-not-exist.yaml"})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected an error for a missing script")
	}
}

func TestExportCommandWritesDOT(t *testing.T) {
	path := writeTestScript(t)
	out := filepath.Join(t.TempDir(), "graph.dot")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"export", path, "-o", out})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	dot := string(data)
	if !strings.Contains(dot, "digraph") {
		t.Error("output is not a DOT document")
	}
	if !strings.Contains(dot, `"osc" -> "filter"`) {
		t.Errorf("missing edge in DOT output:\n%s", dot)
	}
}

func TestExportCommandRejectsBadFormat(t *testing.T) {
	path := writeTestScript(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"export", path, "-f", "png"})

	err := root.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("error = %v, want invalid format", err)
	}
}

func TestExportPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		want   string
	}{
		{"ExplicitOutput", "out.svg", "s.yaml", "svg", "out.svg"},
		{"DOTDefaultsToStdout", "", "s.yaml", "dot", ""},
		{"SVGDerivedFromScript", "", "session.yaml", "svg", "session.svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exportPath(tt.output, tt.input, tt.format); got != tt.want {
				t.Errorf("exportPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
