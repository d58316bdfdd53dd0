package imm

import "github.com/mkordik/nodewire/pkg/geom"

// Text lays out a text label at the cursor. Labels are anonymous items;
// they grow the enclosing group but never capture hover.
func (c *Context) Text(s string) {
	pos := c.cursor
	sz := c.TextSize(s)
	bb := geom.Rect{Min: pos, Max: pos.Add(sz)}
	c.ItemSize(sz)
	c.ItemAdd(bb, 0)
}

// Button lays out a framed button and reports whether it was clicked
// this frame. Buttons capture the active id while held, which is what
// lets a node distinguish "a widget inside me is being used" from "my
// body is being dragged".
func (c *Context) Button(label string) bool {
	id := c.IDString(label)
	pos := c.cursor
	sz := c.TextSize(label).Add(c.FramePadding.Scale(2))
	if w := c.ItemWidth(); w > 0 {
		sz.X = w
	}
	bb := geom.Rect{Min: pos, Max: pos.Add(sz)}

	c.ItemSize(sz)
	c.ItemAdd(bb, id)

	hovered := c.focused && bb.Contains(c.mousePos)
	if hovered && c.MouseClicked(MouseLeft) {
		c.SetActiveID(id)
	}

	clicked := false
	if c.activeID == id && c.MouseReleased(MouseLeft) {
		clicked = hovered
		c.SetActiveID(0)
	}
	return clicked
}

// Dummy lays out an invisible item of the given size, advancing the
// cursor like any other widget.
func (c *Context) Dummy(sz geom.Vec2) {
	pos := c.cursor
	bb := geom.Rect{Min: pos, Max: pos.Add(sz)}
	c.ItemSize(sz)
	c.ItemAdd(bb, 0)
}
