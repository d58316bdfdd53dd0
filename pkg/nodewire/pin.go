package nodewire

import (
	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
)

// Pin is the retained state of one pin. Layout positions lag one
// frame: EndNode computes Pos for the next BeginPin to consume.
type Pin struct {
	node   imm.ID
	id     imm.ID
	userID UserID

	Type      PinType
	Direction PinDirection
	Flags     PinFlags

	// Pos is where the pin group starts next frame (screen space).
	Pos geom.Vec2

	// Center is the middle of the pin head circle.
	Center geom.Vec2

	// ScreenBounds covers the pin group from the last frame.
	ScreenBounds geom.Rect

	placed bool

	connections []ConnectionID

	// Connection change feed for the owning widget. The b flags mark
	// whether this frame touched the lists; EndPin clears untouched
	// lists so each change is reported exactly once.
	newConnections    []PinRef
	erasedConnections []PinRef
	bNew              bool
	bErased           bool

	hovered bool
}

// Ref returns the stable reference addressing this pin.
func (p *Pin) Ref() PinRef {
	return PinRef{Node: p.node, Pin: p.id, Direction: p.Direction}
}

// UserID returns the key the pin was declared with.
func (p *Pin) UserID() UserID { return p.userID }

// Connected reports whether any connection ends at this pin.
func (p *Pin) Connected() bool { return len(p.connections) > 0 }

// BeginPin declares the pin keyed by title on the current node and
// opens its scope. It returns true when the pin's connections changed
// since its previous declaration, so widgets can refresh values pulled
// through the graph. Input pins render their head before the caller's
// content; output pins render it in EndPin, after.
func (c *Context) BeginPin(title string, typ PinType, dir PinDirection, flags PinFlags) bool {
	return c.beginPin(c.host.IDString(title), UserID{Str: title, HasStr: true}, typ, dir, flags)
}

// BeginPinID is [Context.BeginPin] with an integer key.
func (c *Context) BeginPinID(id int, typ PinType, dir PinDirection, flags PinFlags) bool {
	return c.beginPin(c.host.IDInt(id), UserID{Int: id}, typ, dir, flags)
}

func (c *Context) beginPin(id imm.ID, userID UserID, typ PinType, dir PinDirection, flags PinFlags) bool {
	g := c.current
	assert(c.scope == scopeNode && g != nil && g.currentNode != nil, "BeginPin outside a node scope")
	node := g.currentNode

	pins := node.inputPins
	if dir == PinOutput {
		pins = node.outputPins
	}
	pin := pins.Get(id)
	g.currentPin = pin

	changed := len(pin.newConnections) > 0 || len(pin.erasedConnections) > 0
	pin.bNew = false
	pin.bErased = false

	pin.node = node.id
	pin.id = id
	pin.userID = userID
	pin.Type = typ
	pin.Direction = dir
	pin.Flags = flags

	// A pin seen for the first time has no retained position, so it
	// lays out at the node's cursor; EndNode settles it into its
	// column for the next frame.
	if !pin.placed {
		pin.Pos = c.host.CursorScreenPos()
		pin.placed = true
	}
	c.host.SetCursorScreenPos(pin.Pos)
	c.host.BeginGroup()
	c.host.PushID(id)

	c.scope = scopePin

	if dir == PinInput {
		g.pinHead(c.host, id, pin)
		c.host.SameLine()
	} else if flags&PinFlagNoPadding == 0 {
		g.dummyPinHead(c.host)
		c.host.SameLine()
	}

	return changed
}

// EndPin closes the pin scope. Untouched change feeds are cleared
// here, which gives the one-frame claim window for BeginPin's changed
// flag.
func (c *Context) EndPin() {
	g := c.current
	assert(c.scope == scopePin && g != nil && g.currentPin != nil, "EndPin without matching BeginPin")
	pin := g.currentPin

	if pin.Direction == PinOutput {
		c.host.SameLine()
		g.pinHead(c.host, pin.id, pin)
	}

	c.host.PopID()
	res := c.host.EndGroup()
	pin.ScreenBounds = res.Bounds

	c.scope = scopeNode

	if !pin.bNew {
		pin.newConnections = pin.newConnections[:0]
	}
	if !pin.bErased {
		pin.erasedConnections = pin.erasedConnections[:0]
	}
}

// pinHead runs the pin circle: hit testing, the connect gesture, and
// drawing. The hit box is a frame-height square at the cursor.
func (g *Graph) pinHead(host *imm.Context, id imm.ID, pin *Pin) {
	sq := host.FrameHeight()
	pos := host.CursorScreenPos()
	checkBB := geom.Rect{Min: pos, Max: pos.Add(geom.V(sq, sq))}
	pin.Center = checkBB.Center()

	radius := g.Style.PinRadius * g.Camera.Scale
	outline := g.Style.PinOutlineThickness * g.Camera.Scale

	pressed := false
	filled := len(pin.connections) > 0
	if host.Focused() {
		pin.hovered = host.MouseHoveringRect(checkBB)
		pressed = pin.hovered && host.MouseDown(imm.MouseLeft)
		filled = filled || pin.hovered || g.newConnection.is(pin.Ref())

		// Drag out a new connection.
		if pin.hovered && host.MouseClicked(imm.MouseLeft) && !host.AnyModDown() {
			g.newConnection.set(pin.Ref())
			host.SetActiveID(id)
		}

		// Drop a dragged connection onto this pin.
		if pin.hovered && g.newConnection.ok && host.MouseReleased(imm.MouseLeft) {
			if other := g.findPin(g.newConnection.ref); other != nil {
				g.makeConnection(pin.Ref(), other.Ref())
			}
		}

		// Alt-click disconnects.
		if pin.hovered && host.MouseReleased(imm.MouseLeft) && host.Mods()&imm.ModAlt != 0 && !g.newConnection.ok {
			g.breakConnections(pin.Ref())
		}
	}

	host.ItemSize(geom.V(sq, sq))
	host.ItemAdd(checkBB, id)

	pinColor := g.Style.PinColor(pin.Type)
	if pressed {
		pinColor = pinColor.Scale(0.8)
	}
	fill := g.Style.Color(ColorPinBackground)
	if filled {
		fill = pinColor
	}

	dl := host.DrawList()
	if pressed || filled {
		dl.AddCircleFilled(pin.Center, radius+outline*0.5, fill)
	} else {
		dl.AddCircleFilled(pin.Center, radius, fill)
		dl.AddCircle(pin.Center, radius, pinColor, outline)
	}
}

// dummyPinHead reserves pin head space so output content aligns with
// the input column.
func (g *Graph) dummyPinHead(host *imm.Context) {
	sq := host.FrameHeight()
	host.Dummy(geom.V(sq, sq))
}

// ====================================================================================================================
// Pin queries
// ====================================================================================================================

// CurrentPinRef returns the reference of the pin being declared.
func (c *Context) CurrentPinRef() PinRef {
	g := c.current
	assert(c.scope == scopePin && g != nil && g.currentPin != nil, "CurrentPinRef outside a pin scope")
	return g.currentPin.Ref()
}

// IsPinConnected reports whether the pin being declared has any
// connection.
func (c *Context) IsPinConnected() bool {
	g := c.current
	assert(c.scope == scopePin && g != nil && g.currentPin != nil, "IsPinConnected outside a pin scope")
	return g.currentPin.Connected()
}

// IsPinConnectedAt reports whether the referenced pin has any
// connection. Unlike the scope-bound form it may be called anywhere
// inside a graph or post-op scope.
func (c *Context) IsPinConnectedAt(ref PinRef) bool {
	g := c.current
	assert(g != nil, "IsPinConnectedAt outside a graph scope")
	pin := g.findPin(ref)
	return pin != nil && pin.Connected()
}

// PinConnections returns the connection handles ending at the pin
// being declared. The slice is owned by the pin; treat it as
// read-only.
func (c *Context) PinConnections() []ConnectionID {
	g := c.current
	assert(c.scope == scopePin && g != nil && g.currentPin != nil, "PinConnections outside a pin scope")
	return g.currentPin.connections
}

// PinConnectionsAt is [Context.PinConnections] for an arbitrary pin
// reference.
func (c *Context) PinConnectionsAt(ref PinRef) []ConnectionID {
	g := c.current
	assert(g != nil, "PinConnectionsAt outside a graph scope")
	pin := g.findPin(ref)
	if pin == nil {
		return nil
	}
	return pin.connections
}

// NewConnections returns the opposite endpoints of connections made to
// the pin being declared since its last declaration. Reading the feed
// here does not consume it; it is cleared by the next EndPin unless a
// connection arrives in between.
func (c *Context) NewConnections() []PinRef {
	g := c.current
	assert(c.scope == scopePin && g != nil && g.currentPin != nil, "NewConnections outside a pin scope")
	return g.currentPin.newConnections
}

// ErasedConnections returns the opposite endpoints of connections
// broken at the pin being declared since its last declaration.
func (c *Context) ErasedConnections() []PinRef {
	g := c.current
	assert(c.scope == scopePin && g != nil && g.currentPin != nil, "ErasedConnections outside a pin scope")
	return g.currentPin.erasedConnections
}

// PinUserID returns the key the referenced pin was declared with.
func (c *Context) PinUserID(ref PinRef) UserID {
	g := c.current
	assert(g != nil, "PinUserID outside a graph scope")
	pin := g.findPin(ref)
	assert(pin != nil, "PinUserID on unknown pin")
	return pin.userID
}
