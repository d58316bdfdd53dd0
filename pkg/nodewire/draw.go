package nodewire

import (
	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
)

// drawGrid fills the viewport with minor and major grid lines. The
// minor cell tracks the font size so grid snapping and text stay in
// proportion; the major step is a style multiple of it.
func (g *Graph) drawGrid(host *imm.Context, bounds geom.Rect) {
	dl := host.DrawList()

	secondarySize := host.FontSize() / g.Camera.Scale
	primarySize := secondarySize * g.Style.GridPrimaryStep

	secondaryStep := secondarySize * g.Camera.Scale
	primaryStep := primarySize * g.Camera.Scale

	start := g.ScreenToGrid(bounds.Min)
	start = geom.V(
		geom.Floor(start.X/primarySize)*primarySize,
		geom.Floor(start.Y/primarySize)*primarySize,
	)
	start = g.GridToScreen(start)

	end := g.ScreenToGrid(bounds.Max)
	end = geom.V(
		geom.Floor(end.X/primarySize)*primarySize,
		geom.Floor(end.Y/primarySize)*primarySize,
	)
	end = end.Add(geom.V(primarySize, primarySize))
	end = g.GridToScreen(end)

	secondary := g.Style.Color(ColorGridSecondaryLines)
	for x := start.X; x < end.X; x += secondaryStep {
		dl.AddLine(geom.V(x, start.Y), geom.V(x, end.Y), secondary, g.Style.GridSecondaryThickness*g.Camera.Scale)
	}
	for y := start.Y; y < end.Y; y += secondaryStep {
		dl.AddLine(geom.V(start.X, y), geom.V(end.X, y), secondary, g.Style.GridSecondaryThickness*g.Camera.Scale)
	}

	primary := g.Style.Color(ColorGridPrimaryLines)
	for x := start.X; x < end.X; x += primaryStep {
		dl.AddLine(geom.V(x, start.Y), geom.V(x, end.Y), primary, g.Style.GridPrimaryThickness*g.Camera.Scale)
	}
	for y := start.Y; y < end.Y; y += primaryStep {
		dl.AddLine(geom.V(start.X, y), geom.V(end.X, y), primary, g.Style.GridPrimaryThickness*g.Camera.Scale)
	}
}

// drawGraph runs the end-of-frame pass: focus scan in reverse paint
// order, node backgrounds, channel reordering and merge, then the
// connections and the marquee on top.
func (g *Graph) drawGraph(host *imm.Context) {
	dl := host.DrawList()

	prevFocus := g.focusedNode
	g.hoveredNode.reset()
	if host.Focused() && !g.newConnection.ok {
		for _, node := range g.nodes.Backward() {
			if g.nodeBehaviour(host, node) {
				break
			}
		}
	}
	if prevFocus != g.focusedNode && g.focusedNode.ok {
		g.nodes.PushToTop(g.focusedNode.id)
	}

	for _, node := range g.nodes.All() {
		dl.SetChannel(node.bgChannel)
		g.drawNode(host, node)
	}

	g.sortChannels(host)
	dl.Merge()

	if g.newConnection.ok {
		if pin := g.findPin(g.newConnection.ref); pin != nil {
			g.drawConnectionToPoint(host, pin, host.MousePos())
		}
	}

	for i := 0; i < g.connections.Cap(); i++ {
		if !g.connections.InUse(i) {
			continue
		}
		conn := *g.connections.Get(i)
		if g.checkConnectionValidity(i, conn) {
			continue
		}
		g.drawConnectionPins(host, g.findPin(conn.A), g.findPin(conn.B))
	}

	if g.selectRegionOpen {
		sel := g.selectionRect(host)
		dl.AddRectFilled(sel.Min, sel.Max, g.Style.Color(ColorSelectRegionBackground), g.Style.SelectRegionRounding)
		dl.AddRect(sel.Min, sel.Max, g.Style.Color(ColorSelectRegionOutline), g.Style.SelectRegionRounding, g.Style.SelectRegionOutlineThickness)
	}
}

// drawNode paints one node's background channel: body, header strip,
// and the selection outline.
func (g *Graph) drawNode(host *imm.Context, node *Node) {
	dl := host.DrawList()
	scale := g.Camera.Scale

	color := g.Style.Color(ColorNodeBackground)
	if node.hovered {
		color = g.Style.Color(ColorNodeHoveredBackground)
	}
	if node.active {
		color = g.Style.Color(ColorNodeActiveBackground)
	}

	dl.AddRectFilled(node.ScreenBounds.Min, node.ScreenBounds.Max, color, g.Style.NodeRounding*scale)
	dl.AddRect(node.ScreenBounds.Min, node.ScreenBounds.Max, g.Style.Color(ColorNodeOutline), g.Style.NodeRounding*scale, g.Style.NodeOutlineThickness*scale)

	if node.hasHeader {
		hb := node.header.screenBounds
		dl.AddRectFilled(hb.Min, hb.Max, node.header.color, g.Style.NodeRounding*scale)
		dl.AddLine(
			geom.V(hb.Min.X, hb.Max.Y), geom.V(hb.Max.X, hb.Max.Y),
			g.Style.Color(ColorNodeOutline), g.Style.NodeOutlineThickness*scale,
		)
	}

	if _, ok := g.selected[node.id]; ok {
		dl.AddRect(
			node.ScreenBounds.Min, node.ScreenBounds.Max,
			g.Style.Color(ColorNodeOutlineSelected),
			g.Style.NodeRounding*scale, g.Style.NodeOutlineSelectedThickness*scale,
		)
	}
}
