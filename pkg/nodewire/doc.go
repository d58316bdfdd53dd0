// Package nodewire is an immediate-mode node graph editor built on the
// headless core in package imm. Callers redeclare their graph every
// frame between BeginGraph and EndGraph; nodewire keeps per-entity
// state (positions, selection, connections) alive across frames in
// pools keyed by stable hashed IDs, and emits all rendering into the
// host draw list.
//
// The per-frame shape mirrors the widget nesting:
//
//	ctx := nodewire.CreateContext(host)
//	...
//	ctx.BeginGraph("patch", geom.V(0, 0))
//	if ctx.BeginNode("osc", &pos) {
//		ctx.BeginNodeHeader("Oscillator", headerCol, hoverCol, activeCol)
//		host.Text("Oscillator")
//		ctx.EndNodeHeader()
//		if ctx.BeginPin("freq", pinFloat, nodewire.PinInput, 0) {
//			// connections changed since last frame
//		}
//		host.Text("freq")
//		ctx.EndPin()
//	}
//	ctx.EndNode()
//	ctx.EndGraph()
//
// Entities not redeclared for a frame are evicted at the start of the
// next BeginGraph; connections touching evicted pins are pruned lazily
// when the graph is drawn.
package nodewire
