package nodewire

import (
	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
	"github.com/mkordik/nodewire/pkg/pool"
)

// Camera maps grid space to screen space: a grid position and a zoom
// scale, both centered on the graph viewport.
type Camera struct {
	Position geom.Vec2
	Scale    float32
}

// Validator decides whether a dragged connection between two pins may
// be made. Returning false rejects the connection silently.
type Validator func(a, b *Pin) bool

// Default viewport when BeginGraph is given a zero size.
const (
	defaultGraphWidth  = 800
	defaultGraphHeight = 600
)

// Graph is the retained state of one editor viewport: its nodes,
// connections, selection, and camera. Graphs are created on first
// BeginGraph and live until their context is destroyed.
type Graph struct {
	ctx  *Context
	name string
	id   imm.ID

	Style    Style
	Settings Settings
	Camera   Camera

	pos  geom.Vec2
	size geom.Vec2

	targetZoom float32
	panning    bool

	nodes       *pool.Pool[imm.ID, Node]
	connections pool.List[Connection]

	selected          map[imm.ID]struct{}
	selectRegion      map[imm.ID]struct{}
	selectRegionStart geom.Vec2
	selectRegionOpen  bool
	lockSelectRegion  bool
	dragging          bool

	hoveredNode optID
	focusedNode optID

	newConnection optPinRef
	validator     Validator

	currentNode *Node
	currentPin  *Pin
	submitCount int
}

func newNodePool() *pool.Pool[imm.ID, Node] {
	return pool.New[imm.ID, Node]()
}

// Name returns the title the graph was declared under.
func (g *Graph) Name() string { return g.name }

// ID returns the graph's hashed title.
func (g *Graph) ID() imm.ID { return g.id }

// Pos returns the viewport origin in screen space, valid after
// BeginGraph.
func (g *Graph) Pos() geom.Vec2 { return g.pos }

// Size returns the viewport size, valid after BeginGraph.
func (g *Graph) Size() geom.Vec2 { return g.size }

// Bounds returns the viewport rectangle in screen space.
func (g *Graph) Bounds() geom.Rect {
	return geom.Rect{Min: g.pos, Max: g.pos.Add(g.size)}
}

func (g *Graph) center() geom.Vec2 {
	return g.pos.Add(g.size.Scale(0.5))
}

// ====================================================================================================================
// Frame lifecycle
// ====================================================================================================================

// BeginGraph opens the graph declared under title for this frame,
// creating it on first use. size is the viewport extent; non-positive
// components fall back to a default. Entities not redeclared last frame
// are evicted here, dropping them from the selection as well. Must be
// closed with [Context.EndGraph].
func (c *Context) BeginGraph(title string, size geom.Vec2) {
	assert(title != "", "BeginGraph requires a title")
	assert(c.scope == scopeNone, "BeginGraph inside another graph scope ("+c.scope.String()+")")

	id := imm.HashString(0, title)
	g := c.findGraphByID(id)
	if g == nil {
		g = c.newGraph(title, id)
	}

	c.current = g
	c.scope = scopeGraph

	// Text and widget metrics follow the zoom.
	c.savedFontScale = c.host.FontScale()
	c.host.SetFontScale(g.Camera.Scale)

	if size.X <= 0 {
		size.X = defaultGraphWidth
	}
	if size.Y <= 0 {
		size.Y = defaultGraphHeight
	}
	g.size = size
	g.pos = c.host.CursorScreenPos()
	g.submitCount = 0
	g.lockSelectRegion = false

	g.nodes.Cleanup(func(id imm.ID) {
		delete(g.selected, id)
	})
	g.nodes.Reset()

	c.savedItemSpacing = c.host.ItemSpacing
	c.savedFramePadding = c.host.FramePadding
	spacing := g.Style.ItemSpacing * g.Camera.Scale
	padding := g.Style.NodePadding * g.Camera.Scale
	c.host.ItemSpacing = geom.V(spacing, spacing)
	c.host.FramePadding = geom.V(padding, padding)

	dl := c.host.DrawList()
	dl.AddRectFilled(g.pos, g.pos.Add(g.size), g.Style.Color(ColorGridBackground), 0)
	g.drawGrid(c.host, g.Bounds())
}

// EndGraph closes the graph opened by [Context.BeginGraph]: nodes are
// painted in their draw order, stale connections pruned, and the
// pan/zoom/selection gestures resolved.
func (c *Context) EndGraph() {
	g := c.current
	assert(c.scope == scopeGraph && g != nil, "EndGraph without matching BeginGraph")

	g.drawGraph(c.host)

	if c.host.Focused() {
		g.behaviour(c.host, g.Bounds())
	}

	c.host.ItemSpacing = c.savedItemSpacing
	c.host.FramePadding = c.savedFramePadding
	c.host.SetFontScale(c.savedFontScale)

	c.current = nil
	c.scope = scopeNone
}

// BeginGraphPostOp reopens a graph after its EndGraph so connections
// and selection can be inspected or edited outside the declaration
// pass. The graph must have been declared before. Close with
// [Context.EndGraphPostOp].
func (c *Context) BeginGraphPostOp(title string) {
	assert(c.scope == scopeNone, "BeginGraphPostOp inside another graph scope ("+c.scope.String()+")")
	g := c.Graph(title)
	assert(g != nil, "BeginGraphPostOp on undeclared graph "+title)
	c.current = g
	c.scope = scopeGraph
}

// EndGraphPostOp closes a post-op scope.
func (c *Context) EndGraphPostOp() {
	assert(c.scope == scopeGraph && c.current != nil, "EndGraphPostOp without matching BeginGraphPostOp")
	c.current = nil
	c.scope = scopeNone
}

// SetConnectionValidator installs the predicate consulted by
// [Context.MakeConnection] for the current graph. A nil validator
// accepts everything.
func (c *Context) SetConnectionValidator(v Validator) {
	assert(c.scope != scopeNone && c.current != nil, "SetConnectionValidator outside a graph scope")
	c.current.validator = v
}

// SetPinColors registers the PinType color table for the current
// graph. The table must cover every pin type declared afterwards.
func (c *Context) SetPinColors(colors []imm.Color) {
	assert(c.current != nil, "SetPinColors outside a graph scope")
	c.current.Style.PinColors = colors
}

// CameraScale returns the current zoom of the current graph.
func (c *Context) CameraScale() float32 {
	assert(c.scope != scopeNone && c.current != nil, "CameraScale outside a graph scope")
	return c.current.Camera.Scale
}

// PushItemWidth pushes w, scaled by the camera, as the width for framed
// widgets declared inside the current node until [Context.PopItemWidth].
func (c *Context) PushItemWidth(w float32) {
	assert(c.scope != scopeNone && c.current != nil, "PushItemWidth outside a graph scope")
	c.host.PushItemWidth(w * c.current.Camera.Scale)
}

// PopItemWidth pops the innermost pushed item width.
func (c *Context) PopItemWidth() {
	assert(c.scope != scopeNone && c.current != nil, "PopItemWidth outside a graph scope")
	c.host.PopItemWidth()
}

// SelectedNodes returns the selected node IDs of the current graph.
// The returned slice is a copy in unspecified order.
func (c *Context) SelectedNodes() []imm.ID {
	assert(c.current != nil, "SelectedNodes outside a graph scope")
	return c.current.SelectedNodes()
}

// SelectedNodes returns the selected node IDs as a copied slice in
// unspecified order.
func (g *Graph) SelectedNodes() []imm.ID {
	out := make([]imm.ID, 0, len(g.selected))
	for id := range g.selected {
		out = append(out, id)
	}
	return out
}

// IsNodeSelected reports whether node id is in the selection.
func (g *Graph) IsNodeSelected(id imm.ID) bool {
	_, ok := g.selected[id]
	return ok
}

// NodeCount returns the number of nodes declared this frame.
func (g *Graph) NodeCount() int { return g.nodes.ActiveCount() }

// ConnectionCount returns the number of live connections.
func (g *Graph) ConnectionCount() int { return g.connections.Count() }

// Node returns the node with the given id, if it is still pooled.
func (g *Graph) Node(id imm.ID) (*Node, bool) {
	node, ok := g.nodes.Lookup(id)
	if !ok || node.graph == nil {
		return nil, false
	}
	return node, true
}

// Nodes calls yield for every active node in paint order (back to
// front) until it returns false.
func (g *Graph) Nodes(yield func(*Node) bool) {
	for _, node := range g.nodes.All() {
		if node.graph == nil {
			continue
		}
		if !yield(node) {
			return
		}
	}
}

// Pin returns the pin behind ref, if both the node and the pin are
// still pooled.
func (g *Graph) Pin(ref PinRef) (*Pin, bool) {
	pin := g.findPin(ref)
	return pin, pin != nil
}

// Connections calls yield for every live connection until it returns
// false.
func (g *Graph) Connections(yield func(id ConnectionID, conn Connection) bool) {
	for i := 0; i < g.connections.Cap(); i++ {
		if !g.connections.InUse(i) {
			continue
		}
		if !yield(i, *g.connections.Get(i)) {
			return
		}
	}
}

// ====================================================================================================================
// Coordinate spaces
// ====================================================================================================================

// GridToScreen converts a grid-space position to screen space.
func (g *Graph) GridToScreen(pos geom.Vec2) geom.Vec2 {
	return pos.Sub(g.Camera.Position).Scale(g.Camera.Scale).Add(g.center())
}

// ScreenToGrid converts a screen-space position to grid space.
func (g *Graph) ScreenToGrid(pos geom.Vec2) geom.Vec2 {
	return g.Camera.Position.Add(pos.Sub(g.center()).Scale(1 / g.Camera.Scale))
}

// GridToWindow converts a grid-space position to viewport-relative
// window space.
func (g *Graph) GridToWindow(pos geom.Vec2) geom.Vec2 {
	return g.GridToScreen(pos).Sub(g.pos)
}

// WindowToGrid converts a viewport-relative position to grid space.
func (g *Graph) WindowToGrid(pos geom.Vec2) geom.Vec2 {
	return g.ScreenToGrid(g.pos.Add(pos))
}

// WindowToScreen converts a viewport-relative position to screen
// space.
func (g *Graph) WindowToScreen(pos geom.Vec2) geom.Vec2 {
	return g.pos.Add(pos)
}

// ScreenToWindow converts a screen-space position to viewport-relative
// window space.
func (g *Graph) ScreenToWindow(pos geom.Vec2) geom.Vec2 {
	return pos.Sub(g.pos)
}

// SnapToGrid floors a grid-space position to the minor grid cell.
func (g *Graph) SnapToGrid(pos geom.Vec2) geom.Vec2 {
	cell := g.ctx.host.BaseFontSize()
	return geom.V(
		geom.Floor(pos.X/cell)*cell,
		geom.Floor(pos.Y/cell)*cell,
	)
}

// ====================================================================================================================
// Selection
// ====================================================================================================================

// selectionRect returns the marquee rectangle in screen space,
// normalized between the drag origin and the pointer.
func (g *Graph) selectionRect(host *imm.Context) geom.Rect {
	if !g.selectRegionOpen {
		return geom.Rect{Min: geom.V(-1, -1), Max: geom.V(-1, -1)}
	}
	return geom.R(g.selectRegionStart, host.MousePos())
}

// updateSelection applies one click or marquee event to the selection.
// Ctrl toggles, Shift adds (or removes when removal is set) without
// clearing, and an unmodified event replaces the selection when
// allowClear permits.
func (g *Graph) updateSelection(host *imm.Context, node imm.ID, allowClear, removal bool) {
	switch host.Mods() {
	case imm.ModCtrl:
		if _, ok := g.selected[node]; ok {
			delete(g.selected, node)
		} else {
			g.selected[node] = struct{}{}
		}
	case imm.ModShift:
		if removal {
			delete(g.selected, node)
		} else {
			g.selected[node] = struct{}{}
		}
	default:
		if allowClear {
			clear(g.selected)
		}
		if removal {
			delete(g.selected, node)
		} else {
			g.selected[node] = struct{}{}
		}
	}
}

// findPin resolves a pin reference, nil when the node or pin has been
// evicted.
func (g *Graph) findPin(ref PinRef) *Pin {
	node, ok := g.nodes.Lookup(ref.Node)
	if !ok || node.graph == nil {
		return nil
	}
	pins := node.inputPins
	if ref.Direction == PinOutput {
		pins = node.outputPins
	}
	pin, ok := pins.Lookup(ref.Pin)
	if !ok {
		return nil
	}
	return pin
}
