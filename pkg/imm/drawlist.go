package imm

import "github.com/mkordik/nodewire/pkg/geom"

// Color is a straight-alpha RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB constructs an opaque color.
func RGB(r, g, b uint8) Color { return Color{r, g, b, 255} }

// RGBA constructs a color with explicit alpha.
func RGBA(r, g, b, a uint8) Color { return Color{r, g, b, a} }

// Scale multiplies all components by s, clamping to the valid range.
// Used for pressed/dimmed widget states.
func (c Color) Scale(s float32) Color {
	f := func(v uint8) uint8 {
		x := float32(v) * s
		if x < 0 {
			return 0
		}
		if x > 255 {
			return 255
		}
		return uint8(x)
	}
	return Color{f(c.R), f(c.G), f(c.B), f(c.A)}
}

// LerpColor interpolates componentwise between a and b by t.
func LerpColor(a, b Color, t float32) Color {
	f := func(x, y uint8) uint8 {
		return uint8(geom.Clamp(geom.Lerp(float32(x), float32(y), t), 0, 255))
	}
	return Color{f(a.R, b.R), f(a.G, b.G), f(a.B, b.B), f(a.A, b.A)}
}

// CmdKind discriminates recorded draw commands.
type CmdKind int

// Draw command kinds.
const (
	CmdLine CmdKind = iota
	CmdRect
	CmdRectFilled
	CmdCircle
	CmdCircleFilled
	CmdBezierCubic
)

// DrawCmd is one recorded draw operation. Which fields are meaningful
// depends on Kind:
//
//   - CmdLine: P1, P2, Color, Thickness
//   - CmdRect: P1 (min), P2 (max), Color, Rounding, Thickness
//   - CmdRectFilled: P1 (min), P2 (max), Color, Rounding
//   - CmdCircle: P1 (center), Radius, Color, Thickness
//   - CmdCircleFilled: P1 (center), Radius, Color
//   - CmdBezierCubic: P1..P4 control points, Color at P1 blending to
//     Color2 at P4, Thickness
type DrawCmd struct {
	Kind      CmdKind
	P1, P2    geom.Vec2
	P3, P4    geom.Vec2
	Radius    float32
	Rounding  float32
	Thickness float32
	Color     Color
	Color2    Color
}

// DrawChannel is one re-orderable command buffer within a split draw
// list. Channel contents can be swapped wholesale without copying
// individual commands, which is what draw-order sorting relies on.
type DrawChannel struct {
	Cmds []DrawCmd
}

// DrawList records draw commands for one frame. Commands go to the
// current channel; channel 0 is the base layer. After [DrawList.Merge]
// all channels are flattened back into channel 0 in channel order.
type DrawList struct {
	Channels []DrawChannel
	current  int
}

func newDrawList() *DrawList {
	return &DrawList{Channels: make([]DrawChannel, 1)}
}

// reset clears the list for a new frame, keeping buffer capacity.
func (d *DrawList) reset() {
	d.Channels = d.Channels[:1]
	d.Channels[0].Cmds = d.Channels[0].Cmds[:0]
	d.current = 0
}

// PushChannels appends n channels to the list, reusing the capacity of
// previously allocated channel buffers where possible, and returns the
// index of the first new channel. The current channel is unchanged.
func (d *DrawList) PushChannels(n int) int {
	first := len(d.Channels)
	for i := 0; i < n; i++ {
		if len(d.Channels) < cap(d.Channels) {
			// Reuse the shrunk slot's command buffer.
			d.Channels = d.Channels[:len(d.Channels)+1]
			ch := &d.Channels[len(d.Channels)-1]
			ch.Cmds = ch.Cmds[:0]
		} else {
			d.Channels = append(d.Channels, DrawChannel{})
		}
	}
	return first
}

// SetChannel redirects subsequent draw calls to channel i. It panics if i
// is out of range.
func (d *DrawList) SetChannel(i int) {
	if i < 0 || i >= len(d.Channels) {
		panic("imm: draw channel index out of range")
	}
	d.current = i
}

// ChannelCount returns the number of channels currently allocated.
func (d *DrawList) ChannelCount() int { return len(d.Channels) }

// SwapChannels exchanges the command buffers of channels i and j.
func (d *DrawList) SwapChannels(i, j int) {
	d.Channels[i].Cmds, d.Channels[j].Cmds = d.Channels[j].Cmds, d.Channels[i].Cmds
}

// Merge flattens every channel into channel 0 in channel order and drops
// the extra channels. Subsequent draws append on top of the merged
// output.
func (d *DrawList) Merge() {
	base := d.Channels[0].Cmds
	for i := 1; i < len(d.Channels); i++ {
		base = append(base, d.Channels[i].Cmds...)
		d.Channels[i].Cmds = d.Channels[i].Cmds[:0]
	}
	d.Channels[0].Cmds = base
	d.Channels = d.Channels[:1]
	d.current = 0
}

// Commands returns the base channel's commands. Call after Merge for the
// full frame output.
func (d *DrawList) Commands() []DrawCmd { return d.Channels[0].Cmds }

func (d *DrawList) add(cmd DrawCmd) {
	ch := &d.Channels[d.current]
	ch.Cmds = append(ch.Cmds, cmd)
}

// AddLine records a line segment from a to b.
func (d *DrawList) AddLine(a, b geom.Vec2, col Color, thickness float32) {
	d.add(DrawCmd{Kind: CmdLine, P1: a, P2: b, Color: col, Thickness: thickness})
}

// AddRect records a rectangle outline.
func (d *DrawList) AddRect(min, max geom.Vec2, col Color, rounding, thickness float32) {
	d.add(DrawCmd{Kind: CmdRect, P1: min, P2: max, Color: col, Rounding: rounding, Thickness: thickness})
}

// AddRectFilled records a filled rectangle.
func (d *DrawList) AddRectFilled(min, max geom.Vec2, col Color, rounding float32) {
	d.add(DrawCmd{Kind: CmdRectFilled, P1: min, P2: max, Color: col, Rounding: rounding})
}

// AddCircle records a circle outline.
func (d *DrawList) AddCircle(center geom.Vec2, radius float32, col Color, thickness float32) {
	d.add(DrawCmd{Kind: CmdCircle, P1: center, Radius: radius, Color: col, Thickness: thickness})
}

// AddCircleFilled records a filled circle.
func (d *DrawList) AddCircleFilled(center geom.Vec2, radius float32, col Color) {
	d.add(DrawCmd{Kind: CmdCircleFilled, P1: center, Radius: radius, Color: col})
}

// AddBezierCubicMultiColored records a cubic bezier from p1 to p4 with
// control points p2 and p3, blending from c1 at the start to c2 at the
// end. Tessellation is the renderer's concern.
func (d *DrawList) AddBezierCubicMultiColored(p1, p2, p3, p4 geom.Vec2, c1, c2 Color, thickness float32) {
	d.add(DrawCmd{Kind: CmdBezierCubic, P1: p1, P2: p2, P3: p3, P4: p4, Color: c1, Color2: c2, Thickness: thickness})
}
