package export

import (
	"strings"
	"testing"

	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
	"github.com/mkordik/nodewire/pkg/nodewire"
)

// buildPatch declares a two-node graph with one connection through the
// public editor API and returns it.
func buildPatch(t *testing.T) *nodewire.Graph {
	t.Helper()
	host := imm.NewContext()
	ctx := nodewire.CreateContext(host)
	t.Cleanup(func() { nodewire.DestroyContext(ctx) })

	oscPos := geom.V(-100, 0)
	filterPos := geom.V(100, 40)
	var out, in nodewire.PinRef
	for i := 0; i < 2; i++ {
		host.NewFrame(imm.Input{DeltaTime: 1.0 / 60.0, Focused: true})
		ctx.BeginGraph("patch", geom.V(0, 0))
		ctx.SetPinColors([]imm.Color{imm.RGB(0xE4, 0x9A, 0x2D)})

		ctx.BeginNode("osc", &oscPos)
		ctx.BeginPin("freq", 0, nodewire.PinOutput, 0)
		out = ctx.CurrentPinRef()
		ctx.EndPin()
		ctx.EndNode()

		ctx.BeginNode("filter", &filterPos)
		ctx.BeginPin("cutoff", 0, nodewire.PinInput, 0)
		in = ctx.CurrentPinRef()
		ctx.EndPin()
		ctx.EndNode()

		ctx.EndGraph()
	}

	ctx.BeginGraphPostOp("patch")
	if !ctx.MakeConnection(out, in) {
		t.Fatal("MakeConnection failed")
	}
	ctx.EndGraphPostOp()

	return ctx.Graph("patch")
}

func TestToDOT_Basic(t *testing.T) {
	g := buildPatch(t)

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"osc"`) {
		t.Error("ToDOT() output missing node osc")
	}
	if !strings.Contains(dot, `"filter"`) {
		t.Error("ToDOT() output missing node filter")
	}
	if !strings.Contains(dot, `"osc" -> "filter"`) {
		t.Error("ToDOT() output missing edge in signal-flow direction")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := buildPatch(t)

	dot := ToDOT(g, Options{Detailed: true})

	if !strings.Contains(dot, "grid: -100,0") {
		t.Error("ToDOT() detailed output missing grid position")
	}
	if !strings.Contains(dot, `taillabel="freq"`) {
		t.Error("ToDOT() detailed output missing output pin name")
	}
	if !strings.Contains(dot, `headlabel="cutoff"`) {
		t.Error("ToDOT() detailed output missing input pin name")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 120.75 80.25" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)

	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 120.75 80.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="121" height="80"`) {
		t.Errorf("pixel dimensions not set: %s", out)
	}
	if strings.Contains(out, "pt") {
		t.Errorf("point dimensions survived: %s", out)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg><g/></svg>`)
	if got := string(normalizeViewBox(in)); got != string(in) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
