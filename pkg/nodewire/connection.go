package nodewire

import (
	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
)

// MakeConnection connects two pins of the current graph. It fails
// silently (returns false) when the pins share a direction or a node,
// when either reference is stale, or when the graph's validator
// rejects the pair. Connecting to an occupied input pin first breaks
// the input's existing connection. Both pins' new-connection feeds are
// notified.
func (c *Context) MakeConnection(a, b PinRef) bool {
	g := c.current
	assert(g != nil, "MakeConnection outside a graph scope")
	return g.makeConnection(a, b)
}

func (g *Graph) makeConnection(a, b PinRef) bool {
	if a.Direction == b.Direction {
		return false
	}
	if a.Node == b.Node {
		return false
	}

	pinA := g.findPin(a)
	pinB := g.findPin(b)
	if pinA == nil || pinB == nil {
		return false
	}

	if g.validator != nil && !g.validator(pinA, pinB) {
		return false
	}

	// Input pins hold a single connection.
	if pinA.Direction == PinInput && len(pinA.connections) > 0 {
		g.breakConnections(a)
	}
	if pinB.Direction == PinInput && len(pinB.connections) > 0 {
		g.breakConnections(b)
	}

	id := g.connections.Insert(Connection{A: a, B: b})

	pinA.connections = append(pinA.connections, id)
	pinB.connections = append(pinB.connections, id)

	pinA.newConnections = append(pinA.newConnections, b)
	pinA.bNew = true
	pinB.newConnections = append(pinB.newConnections, a)
	pinB.bNew = true

	return true
}

// BreakConnection removes one connection by handle and notifies both
// endpoints' erased-connection feeds.
func (c *Context) BreakConnection(id ConnectionID) {
	g := c.current
	assert(g != nil, "BreakConnection outside a graph scope")
	g.breakConnection(id)
}

func (g *Graph) breakConnection(id ConnectionID) {
	if !g.connections.InUse(id) {
		return
	}
	conn := *g.connections.Get(id)
	g.connections.Erase(id)

	pinA := g.findPin(conn.A)
	pinB := g.findPin(conn.B)

	if pinA != nil {
		pinA.connections = eraseUnsorted(pinA.connections, id)
		pinA.erasedConnections = append(pinA.erasedConnections, conn.B)
		pinA.bErased = true
		pinA.newConnections = erasePinRef(pinA.newConnections, conn.B)
	}
	if pinB != nil {
		pinB.connections = eraseUnsorted(pinB.connections, id)
		pinB.erasedConnections = append(pinB.erasedConnections, conn.A)
		pinB.bErased = true
		pinB.newConnections = erasePinRef(pinB.newConnections, conn.A)
	}
}

// BreakConnections removes every connection ending at ref.
func (c *Context) BreakConnections(ref PinRef) {
	g := c.current
	assert(g != nil, "BreakConnections outside a graph scope")
	g.breakConnections(ref)
}

func (g *Graph) breakConnections(ref PinRef) {
	pin := g.findPin(ref)
	if pin == nil {
		return
	}

	for _, id := range pin.connections {
		conn := *g.connections.Get(id)
		g.connections.Erase(id)

		pin.erasedConnections = append(pin.erasedConnections, conn.Opposite(ref))
		pin.bErased = true
		pin.newConnections = erasePinRef(pin.newConnections, conn.Opposite(ref))

		if other := g.findPin(conn.Opposite(ref)); other != nil {
			other.erasedConnections = append(other.erasedConnections, ref)
			other.bErased = true
			other.newConnections = erasePinRef(other.newConnections, ref)
			other.connections = eraseUnsorted(other.connections, id)
		}
	}

	pin.connections = pin.connections[:0]
}

func eraseUnsorted(s []ConnectionID, id ConnectionID) []ConnectionID {
	for i, v := range s {
		if v == id {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}

func erasePinRef(s []PinRef, ref PinRef) []PinRef {
	for i, v := range s {
		if v == ref {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// checkConnectionValidity prunes a connection whose endpoints no
// longer exist. It returns true when the connection was pruned.
func (g *Graph) checkConnectionValidity(id ConnectionID, conn Connection) bool {
	if g.findPin(conn.A) == nil || g.findPin(conn.B) == nil {
		g.cleanupConnection(id, conn)
		return true
	}
	return false
}

// cleanupConnection drops id from any endpoint pin that still exists
// and erases it from the connection list. No erased-connection feeds
// fire; the pins left the graph with their widgets.
func (g *Graph) cleanupConnection(id ConnectionID, conn Connection) {
	if pin := g.findPin(conn.A); pin != nil {
		pin.connections = eraseUnsorted(pin.connections, id)
	}
	if pin := g.findPin(conn.B); pin != nil {
		pin.connections = eraseUnsorted(pin.connections, id)
	}
	g.connections.Erase(id)
}

// ====================================================================================================================
// Rendering
// ====================================================================================================================

// pinConnectionAnchor is where a connection meets a pin: the head
// center nudged outward in the pin's facing direction.
func (g *Graph) pinConnectionAnchor(pin *Pin) geom.Vec2 {
	radius := g.Style.PinRadius * g.Camera.Scale
	if pin.Direction == PinOutput {
		return pin.Center.Add(geom.V(radius, 0))
	}
	return pin.Center.Sub(geom.V(radius, 0))
}

// drawConnection draws a tapered cubic bezier from an output anchor to
// an input anchor, color blended between the endpoint pin colors. The
// control offset grows with vertical distance and with leftward runs,
// so back-edges bow out instead of collapsing.
func (g *Graph) drawConnection(host *imm.Context, out geom.Vec2, outCol imm.Color, in geom.Vec2, inCol imm.Color) {
	frameHeight := host.FrameHeight()
	diffX := out.X - in.X
	diffY := out.Y - in.Y
	yWeight := geom.Abs(diffY)
	xyRatio := 1 + max(diffX, 0)/(frameHeight+geom.Abs(diffY))
	offset := yWeight * xyRatio

	outV := geom.V(out.X+offset, out.Y)
	inV := geom.V(in.X-offset, in.Y)

	host.DrawList().AddBezierCubicMultiColored(
		in, inV, outV, out,
		inCol, outCol,
		g.Style.ConnectionThickness*g.Camera.Scale,
	)
}

// drawConnectionToPoint draws the in-progress connection from a pin to
// the pointer.
func (g *Graph) drawConnectionToPoint(host *imm.Context, pin *Pin, point geom.Vec2) {
	col := g.Style.PinColor(pin.Type)
	if pin.Direction == PinOutput {
		g.drawConnection(host, g.pinConnectionAnchor(pin), col, point, col)
	} else {
		g.drawConnection(host, point, col, g.pinConnectionAnchor(pin), col)
	}
}

// drawConnectionPins draws a settled connection between two pins.
func (g *Graph) drawConnectionPins(host *imm.Context, a, b *Pin) {
	aAnchor, aCol := g.pinConnectionAnchor(a), g.Style.PinColor(a.Type)
	bAnchor, bCol := g.pinConnectionAnchor(b), g.Style.PinColor(b.Type)

	out, outCol := aAnchor, aCol
	in, inCol := bAnchor, bCol
	if a.Direction == PinInput {
		out, outCol = bAnchor, bCol
		in, inCol = aAnchor, aCol
	}
	g.drawConnection(host, out, outCol, in, inCol)
}
