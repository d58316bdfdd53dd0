package scenario

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mkordik/nodewire/pkg/geom"
)

const patchScript = `
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

func TestParseValidScript(t *testing.T) {
	s, err := Parse([]byte(patchScript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Graph != "patch" || len(s.Nodes) != 2 {
		t.Errorf("script = %+v", s)
	}
	if s.Frames[0].Repeat != 3 {
		t.Errorf("Repeat = %d, want 3", s.Frames[0].Repeat)
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   error
	}{
		{"NoGraph", "name: x\nnodes: [{key: a}]\n", ErrNoGraph},
		{"NoNodes", "graph: g\n", ErrNoNodes},
		{"DuplicateNode", "graph: g\nnodes: [{key: a}, {key: a}]\n", ErrDuplicateNode},
		{"BadPinPath", "graph: g\nnodes: [{key: a, outputs: [{key: o}]}]\nconnect: [{from: o, to: a.o}]\n", ErrBadPinPath},
		{"UnknownPin", "graph: g\nnodes: [{key: a, outputs: [{key: o}]}]\nconnect: [{from: a.o, to: a.x}]\n", ErrUnknownPin},
		{"NegativePinType", "graph: g\nnodes: [{key: a, inputs: [{key: i, type: -1}]}]\n", ErrBadPinType},
		{"UnknownButton", "graph: g\nnodes: [{key: a}]\nframes: [{buttons: [side]}]\n", ErrUnknownButton},
		{"UnknownMod", "graph: g\nnodes: [{key: a}]\nframes: [{mods: [hyper]}]\n", ErrUnknownMod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.script))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("graph: g\nnodes: [{key: a}]\nspeed: 11\n"))
	if err == nil || !strings.Contains(err.Error(), "decoding") {
		t.Errorf("Parse error = %v, want a decode rejection", err)
	}
}

func TestRunScriptedSession(t *testing.T) {
	s, err := Parse([]byte(patchScript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := New(s, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Frames != 4 {
		t.Errorf("Frames = %d, want 4 (priming + 3)", res.Frames)
	}
	if res.RunID != r.RunID() {
		t.Error("result run id does not match the runner")
	}
	if len(res.Nodes) != 2 {
		t.Fatalf("Nodes = %v", res.Nodes)
	}
	if len(res.Connections) != 1 {
		t.Fatalf("Connections = %v", res.Connections)
	}
	if c := res.Connections[0]; c.From != "osc.out" || c.To != "filter.cutoff" {
		t.Errorf("connection = %+v, want osc.out -> filter.cutoff", c)
	}
}

func TestRunClickSelectsNode(t *testing.T) {
	const script = `
graph: patch
size: [800, 600]
nodes:
  - key: tap
    pos: [0, 0]
    inputs:
      - {key: in, type: 0}
frames:
  - repeat: 2
  - {mouse: [460, 340]}
  - {mouse: [460, 340], buttons: [left]}
  - {mouse: [460, 340]}
`
	s, err := Parse([]byte(script))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := New(s, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// At scale 1 the node root (0,0) sits at the viewport center
	// (400,300); (460,340) lands in the node body below the pin head.
	if len(res.Selected) != 1 || res.Selected[0] != "tap" {
		t.Errorf("Selected = %v, want [tap]", res.Selected)
	}
	if !res.Nodes[0].Selected {
		t.Error("node state not marked selected")
	}
}

func TestRunCanceledContext(t *testing.T) {
	s, err := Parse([]byte(patchScript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := New(s, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx); err == nil {
		t.Fatal("Run with canceled context returned no error")
	}
}

func TestRunnerRejectsBadPinColor(t *testing.T) {
	s := &Script{Graph: "g", Nodes: []NodeDecl{{Key: "a"}}, PinColors: []string{"nope"}}
	if _, err := New(s, nil); err == nil {
		t.Fatal("New accepted a malformed pin color")
	}
}

func TestNodePositionsSurviveRun(t *testing.T) {
	s, err := Parse([]byte(patchScript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := New(s, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]geom.Vec2{
		"osc":    geom.V(-180, -40),
		"filter": geom.V(120, 60),
	}
	for _, n := range res.Nodes {
		if n.Pos != want[n.Key] {
			t.Errorf("node %s at %v, want %v", n.Key, n.Pos, want[n.Key])
		}
	}
}
