package nodewire

import (
	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
	"github.com/mkordik/nodewire/pkg/pool"
)

// nodeHeader is the banner strip across the top of a node.
type nodeHeader struct {
	color        imm.Color
	screenBounds geom.Rect
}

// Node is the retained state of one node. A slot with a nil graph is
// fresh or recycled and gets initialized by the next BeginNode.
type Node struct {
	graph  *Graph
	id     imm.ID
	userID UserID

	// Root is the node's anchor in grid space.
	Root geom.Vec2

	// ScreenBounds is the padded bounding box from the last layout
	// pass.
	ScreenBounds geom.Rect

	bgChannel int
	fgChannel int

	hovered bool
	active  bool

	dragOffset geom.Vec2

	prevActiveItem imm.ID
	activeItem     imm.ID

	header    nodeHeader
	hasHeader bool

	inputPins  *pool.Pool[imm.ID, Pin]
	outputPins *pool.Pool[imm.ID, Pin]
}

// ID returns the node's hashed identity.
func (n *Node) ID() imm.ID { return n.id }

// UserID returns the key the node was declared with.
func (n *Node) UserID() UserID { return n.userID }

// Hovered reports whether the node owned the pointer last frame.
func (n *Node) Hovered() bool { return n.hovered }

// Active reports whether the node is focused.
func (n *Node) Active() bool { return n.active }

// InputPins calls yield for each input pin, top row first, until it
// returns false.
func (n *Node) InputPins(yield func(*Pin) bool) {
	for _, pin := range n.inputPins.All() {
		if !yield(pin) {
			return
		}
	}
}

// OutputPins calls yield for each output pin, top row first, until it
// returns false.
func (n *Node) OutputPins(yield func(*Pin) bool) {
	for _, pin := range n.outputPins.All() {
		if !yield(pin) {
			return
		}
	}
}

// BeginNode declares the node keyed by title at *pos (grid space) and
// opens its scope. On later frames *pos is written back from the
// retained position, so user-side drag state stays in sync. Returns
// true always; the boolean mirrors the begin/end widget convention.
func (c *Context) BeginNode(title string, pos *geom.Vec2) bool {
	return c.beginNode(c.host.IDString(title), UserID{Str: title, HasStr: true}, pos)
}

// BeginNodeID is [Context.BeginNode] with an integer key.
func (c *Context) BeginNodeID(id int, pos *geom.Vec2) bool {
	return c.beginNode(c.host.IDInt(id), UserID{Int: id}, pos)
}

func (c *Context) beginNode(id imm.ID, userID UserID, pos *geom.Vec2) bool {
	g := c.current
	assert(c.scope == scopeGraph && g != nil, "BeginNode outside a graph scope")

	node := g.nodes.Get(id)
	if node.graph == nil {
		node.graph = g
		node.Root = *pos
		node.id = id
		node.userID = userID
		node.inputPins = pool.New[imm.ID, Pin]()
		node.outputPins = pool.New[imm.ID, Pin]()
	}

	node.inputPins.Cleanup(nil)
	node.inputPins.Reset()
	node.outputPins.Cleanup(nil)
	node.outputPins.Reset()
	node.hasHeader = false
	*pos = node.Root

	g.currentNode = node
	g.submitCount++
	c.scope = scopeNode

	node.bgChannel = c.host.DrawList().PushChannels(2)
	node.fgChannel = node.bgChannel + 1
	c.host.DrawList().SetChannel(node.fgChannel)

	pad := g.Style.NodePadding
	c.host.SetCursorScreenPos(g.GridToScreen(node.Root.Add(geom.V(pad, pad))))
	c.host.BeginGroup()
	c.host.PushID(id)

	node.prevActiveItem = c.host.ActiveID()
	return true
}

// EndNode closes the node scope and runs the layout fixup: the node's
// padded bounds are computed from its content group, the input and
// output pin columns are assigned next frame's positions row by row,
// and the hover state is resolved against occluding nodes, pins, and
// an open marquee.
func (c *Context) EndNode() {
	g := c.current
	assert(c.scope == scopeNode && g != nil && g.currentNode != nil, "EndNode without matching BeginNode")
	node := g.currentNode
	host := c.host

	if host.ActiveID() != node.prevActiveItem || host.ActiveID() == 0 {
		node.activeItem = host.ActiveID()
	}
	nodeItemActive := host.ActiveID() == node.activeItem && host.ActiveID() != 0
	otherHovered := host.AnyItemHovered() || nodeItemActive
	if otherHovered {
		g.lockSelectRegion = true
	}

	host.PopID()
	res := host.EndGroup()

	pad := g.Style.NodePadding * g.Camera.Scale
	node.ScreenBounds = res.Bounds.Expand(pad)

	hovering := host.MouseHoveringRect(node.ScreenBounds) && !otherHovered
	isFocus := g.focusedNode.is(node.id)
	isHovered := g.hoveredNode.is(node.id)

	inputs := collectPins(node.inputPins)
	outputs := collectPins(node.outputPins)

	// First pass: widest row wins, and a hovered pin claims the
	// pointer from the node body.
	var width float32
	for i := 0; i < len(inputs) || i < len(outputs); i++ {
		var iw, ow float32
		if i < len(inputs) {
			iw = inputs[i].ScreenBounds.Width()
			if inputs[i].hovered {
				hovering = false
			}
		}
		if i < len(outputs) {
			ow = outputs[i].ScreenBounds.Width()
			if outputs[i].hovered {
				hovering = false
			}
		}
		width = max(width, iw+ow)
	}

	node.hovered = hovering &&
		(!g.hoveredNode.ok || isHovered) &&
		(!g.focusedNode.ok || isFocus) &&
		!g.selectRegionOpen

	c.scope = scopeGraph
	g.currentNode = nil

	if node.hasHeader {
		node.header.screenBounds.Min.X = node.ScreenBounds.Min.X
		node.header.screenBounds.Max.X = node.ScreenBounds.Max.X
	}

	// Second pass: stack rows below the header, inputs flush left and
	// outputs flush right against the shared column width.
	y := node.ScreenBounds.Min.Y + pad
	if node.hasHeader {
		y = node.header.screenBounds.Max.Y + pad
	}
	inX := node.ScreenBounds.Min.X + pad

	for i := 0; i < len(inputs) || i < len(outputs); i++ {
		var step float32
		if i < len(inputs) {
			in := inputs[i]
			in.Pos = geom.V(inX, y)
			step = max(step, in.ScreenBounds.Height())
		}
		if i < len(outputs) {
			out := outputs[i]
			out.Pos = geom.V(inX+width-out.ScreenBounds.Width(), y)
			step = max(step, out.ScreenBounds.Height())
		}
		y += step + g.Style.ItemSpacing
	}
}

func collectPins(p *pool.Pool[imm.ID, Pin]) []*Pin {
	out := make([]*Pin, 0, p.ActiveCount())
	for _, pin := range p.All() {
		out = append(out, pin)
	}
	return out
}

// BeginNodeHeader opens the node's banner strip. color is swapped for
// hovered or active when the node is in that state. A node takes at
// most one header, declared before any pins.
func (c *Context) BeginNodeHeader(title string, color, hovered, active imm.Color) {
	c.beginNodeHeader(color, hovered, active)
	c.host.PushIDString(title)
}

// BeginNodeHeaderID is [Context.BeginNodeHeader] with an integer key.
func (c *Context) BeginNodeHeaderID(id int, color, hovered, active imm.Color) {
	c.beginNodeHeader(color, hovered, active)
	c.host.PushIDInt(id)
}

func (c *Context) beginNodeHeader(color, hovered, active imm.Color) {
	g := c.current
	assert(c.scope == scopeNode && g != nil && g.currentNode != nil, "BeginNodeHeader outside a node scope")
	node := g.currentNode
	assert(!node.hasHeader, "BeginNodeHeader called twice for one node")

	if node.hovered {
		color = hovered
	}
	if node.active {
		color = active
	}
	node.header = nodeHeader{color: color}
	node.hasHeader = true

	c.host.BeginGroup()
	c.scope = scopeNodeHeader
}

// EndNodeHeader closes the header scope and pads the content cursor
// below the banner.
func (c *Context) EndNodeHeader() {
	g := c.current
	assert(c.scope == scopeNodeHeader && g != nil && g.currentNode != nil, "EndNodeHeader without matching BeginNodeHeader")
	node := g.currentNode
	assert(node.hasHeader, "EndNodeHeader without a header")

	c.host.PopID()
	res := c.host.EndGroup()

	pad := g.Style.NodePadding * g.Camera.Scale
	node.header.screenBounds = res.Bounds.Expand(pad)

	cur := c.host.CursorScreenPos()
	c.host.SetCursorScreenPos(geom.V(cur.X, cur.Y+pad))

	c.scope = scopeNode
}

// CurrentNodeID returns the id of the node being declared.
func (c *Context) CurrentNodeID() imm.ID {
	g := c.current
	assert(g != nil && g.currentNode != nil, "CurrentNodeID outside a node scope")
	return g.currentNode.id
}

// NodeUserID returns the key node id was declared with.
func (c *Context) NodeUserID(id imm.ID) UserID {
	assert(c.current != nil, "NodeUserID outside a graph scope")
	node, ok := c.current.nodes.Lookup(id)
	assert(ok, "NodeUserID on unknown node")
	return node.userID
}
