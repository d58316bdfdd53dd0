package nodewire

import (
	"testing"

	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
)

func TestDragConnectGesture(t *testing.T) {
	r, refs, g := interactionRig(t)

	outPin := g.findPin(refs.out)
	inPin := g.findPin(refs.in)

	// Press on the output pin head starts a pending connection.
	r.moveTo(outPin.Center)
	r.frame(func() { r.declarePatch(refs) })
	r.press(imm.MouseLeft)
	r.frame(func() { r.declarePatch(refs) })

	if !g.newConnection.is(refs.out) {
		t.Fatal("press on pin head did not start a connection")
	}

	// While pending, the frame draws the rubber-band curve to the
	// pointer and the node focus scan stands down.
	mid := outPin.Center.Add(inPin.Center).Scale(0.5)
	r.moveTo(mid)
	r.frame(func() { r.declarePatch(refs) })

	foundCurve := false
	for _, cmd := range r.host.DrawList().Commands() {
		if cmd.Kind == imm.CmdBezierCubic {
			foundCurve = true
			break
		}
	}
	if !foundCurve {
		t.Error("pending connection drew no curve")
	}
	if g.focusedNode.ok {
		t.Error("node gained focus during a connection drag")
	}

	// Release over the input pin completes the connection and clears
	// the pending state.
	r.moveTo(inPin.Center)
	r.frame(func() { r.declarePatch(refs) })
	r.release(imm.MouseLeft)
	r.frame(func() { r.declarePatch(refs) })

	if g.newConnection.ok {
		t.Error("pending connection not cleared after release")
	}
	if g.ConnectionCount() != 1 {
		t.Fatalf("ConnectionCount = %d, want 1", g.ConnectionCount())
	}
	if !inPin.Connected() || !outPin.Connected() {
		t.Error("pins do not report the dropped connection")
	}
	if r.host.ActiveID() != 0 {
		t.Error("pin kept input capture after the gesture")
	}
}

func TestDragConnectAbandonedOverNothing(t *testing.T) {
	r, refs, g := interactionRig(t)
	outPin := g.findPin(refs.out)

	r.moveTo(outPin.Center)
	r.frame(func() { r.declarePatch(refs) })
	r.press(imm.MouseLeft)
	r.frame(func() { r.declarePatch(refs) })

	r.moveTo(geom.V(30, 560))
	r.frame(func() { r.declarePatch(refs) })
	r.release(imm.MouseLeft)
	r.frame(func() { r.declarePatch(refs) })

	if g.newConnection.ok {
		t.Error("abandoned connection still pending")
	}
	if g.ConnectionCount() != 0 {
		t.Errorf("ConnectionCount = %d, want 0", g.ConnectionCount())
	}
}

func TestAltClickBreaksPinConnections(t *testing.T) {
	r, refs, g := interactionRig(t)
	r.connect(t, refs.out, refs.in)

	// Eat the post-connect change feeds.
	r.frame(func() { r.declarePatch(refs) })
	r.frame(func() { r.declarePatch(refs) })

	inPin := g.findPin(refs.in)

	r.in.Mods = imm.ModAlt
	r.moveTo(inPin.Center)
	r.frame(func() { r.declarePatch(refs) })
	r.press(imm.MouseLeft)
	r.frame(func() { r.declarePatch(refs) })
	r.release(imm.MouseLeft)
	r.frame(func() { r.declarePatch(refs) })
	r.in.Mods = 0

	if g.ConnectionCount() != 0 {
		t.Fatalf("ConnectionCount = %d, want 0 after alt-click", g.ConnectionCount())
	}
	if g.newConnection.ok {
		t.Error("alt-click started a connection drag")
	}
	if len(inPin.erasedConnections) == 0 {
		t.Error("alt-click fed no erasure event")
	}
}

func TestPinHeadFillsWhenConnected(t *testing.T) {
	r, refs, g := interactionRig(t)
	inPin := g.findPin(refs.in)

	// Unconnected and unhovered: ring outline around a hollow head.
	r.frame(func() { r.declarePatch(refs) })
	if !hasCircleAt(r.host, inPin.Center, imm.CmdCircle) {
		t.Error("idle pin head drew no outline ring")
	}

	r.connect(t, refs.out, refs.in)
	r.frame(func() { r.declarePatch(refs) })

	// Connected: a single filled head, no ring.
	if hasCircleAt(r.host, inPin.Center, imm.CmdCircle) {
		t.Error("connected pin head still draws the hollow ring")
	}
	if !hasCircleAt(r.host, inPin.Center, imm.CmdCircleFilled) {
		t.Error("connected pin head not filled")
	}
}

func hasCircleAt(host *imm.Context, center geom.Vec2, kind imm.CmdKind) bool {
	for _, cmd := range host.DrawList().Commands() {
		if cmd.Kind == kind && approxVec(cmd.P1, center) {
			return true
		}
	}
	return false
}
