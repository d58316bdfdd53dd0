package nodewire

import (
	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
)

// behaviour resolves the graph-level gestures for the frame: zoom,
// click selection, node dragging, the marquee, and panning. Runs after
// every node has been declared, so it sees this frame's hover and
// focus results.
func (g *Graph) behaviour(host *imm.Context, bounds geom.Rect) {
	// While a connection drag is pending the pins own the pointer; the
	// only graph-level duty left is abandoning the drag on release
	// over nothing.
	if !host.Focused() || g.newConnection.ok {
		if host.MouseReleased(imm.MouseLeft) && g.newConnection.ok {
			g.newConnection.reset()
			host.SetActiveID(0)
		}
		return
	}

	hovered := host.MouseHoveringRect(bounds)

	// Zoom toward the target with exponential smoothing.
	if hovered {
		g.targetZoom += host.Wheel() * g.Settings.ZoomRate * g.Camera.Scale
	}
	g.targetZoom = geom.Clamp(g.targetZoom, g.Settings.ZoomBounds.X, g.Settings.ZoomBounds.Y)
	g.Camera.Scale = geom.Lerp(g.Camera.Scale, g.targetZoom, host.DeltaTime()*g.Settings.ZoomSmoothing)

	if host.MouseClicked(imm.MouseLeft) {
		if !g.focusedNode.ok {
			if host.Mods() == 0 {
				clear(g.selected)
			}
		} else {
			// Capture drag offsets so multi-node drags keep their
			// relative layout.
			mouse := g.ScreenToGrid(host.MousePos())
			for id := range g.selected {
				if node, ok := g.nodes.Lookup(id); ok {
					node.dragOffset = mouse.Sub(node.Root)
				}
			}
			if node, ok := g.nodes.Lookup(g.focusedNode.id); ok {
				node.dragOffset = mouse.Sub(node.Root)
			}
		}
	}

	// A node body holds the active id for the length of its gesture and
	// hands it back on release. Anything else still holding it is a
	// captured widget inside a node, which eats the rest of the
	// gestures.
	if active := host.ActiveID(); active != 0 {
		if !g.nodes.Contains(active) {
			return
		}
		if host.MouseReleased(imm.MouseLeft) {
			host.SetActiveID(0)
		}
	}

	if host.MouseReleased(imm.MouseLeft) {
		if g.focusedNode.ok && !g.dragging {
			g.updateSelection(host, g.focusedNode.id, true, false)
		}
		g.focusedNode.reset()
		g.selectRegionOpen = false
		clear(g.selectRegion)
		g.dragging = false
	}

	if host.MouseDragging(imm.MouseLeft) && host.MouseDown(imm.MouseLeft) {
		if g.focusedNode.ok {
			if _, ok := g.selected[g.focusedNode.id]; !ok {
				g.updateSelection(host, g.focusedNode.id, true, false)
			}

			mouse := g.ScreenToGrid(host.MousePos())
			for id := range g.selected {
				node, ok := g.nodes.Lookup(id)
				if !ok {
					continue
				}
				node.Root = mouse.Sub(node.dragOffset)
				if host.Mods() == imm.ModAlt {
					node.Root = g.SnapToGrid(node.Root)
				}
			}
			g.dragging = true
		} else if !g.selectRegionOpen && !g.lockSelectRegion {
			g.selectRegionStart = host.MousePos()
			g.selectRegionOpen = true
			if g.selectRegion == nil {
				g.selectRegion = make(map[imm.ID]struct{})
			}
		}
	}

	if hovered && host.MouseClicked(imm.MouseMiddle) {
		g.panning = true
	}
	if host.MouseReleased(imm.MouseMiddle) {
		g.panning = false
	}
	if g.panning {
		g.Camera.Position = g.Camera.Position.Sub(host.MouseDelta().Scale(1 / g.Camera.Scale))
	}
}

// nodeBehaviour resolves hover, click focus, and marquee membership
// for one node, called top-down through the paint order. Returns true
// when the node takes focus, which stops the scan so occluded nodes
// never see the click.
func (g *Graph) nodeBehaviour(host *imm.Context, node *Node) bool {
	isFocus := g.focusedNode.is(node.id)

	if node.hovered {
		g.hoveredNode.set(node.id)
	}
	if node.hovered && host.MouseClicked(imm.MouseLeft) {
		g.focusedNode.set(node.id)
		isFocus = true
	}

	if g.selectRegionOpen {
		intersect := g.selectionRect(host).Overlaps(node.ScreenBounds)
		_, checked := g.selectRegion[node.id]

		if intersect && !checked {
			g.selectRegion[node.id] = struct{}{}
			g.updateSelection(host, node.id, false, false)
		}
		if !intersect && checked {
			delete(g.selectRegion, node.id)
			g.updateSelection(host, node.id, false, true)
		}
	}

	node.active = isFocus
	if node.active {
		host.SetActiveID(node.id)
	}

	return isFocus && host.MouseClicked(imm.MouseLeft)
}
