package imm

import (
	"github.com/mkordik/nodewire/pkg/geom"
)

// ID identifies items, nodes, and graphs. IDs are FNV-1a hashes of a
// caller-supplied key mixed with the enclosing ID-stack scope, so equal
// keys in different scopes produce distinct IDs. Only the uniqueness
// contract is stable; never rely on particular hash values.
type ID uint32

// MouseButton indexes the tracked mouse buttons.
type MouseButton int

// Tracked mouse buttons.
const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle

	mouseButtonCount
)

// ModKeys is a bitmask of held modifier keys.
type ModKeys uint8

// Modifier key bits.
const (
	ModCtrl ModKeys = 1 << iota
	ModShift
	ModAlt
)

// DragThreshold is the distance in pixels the pointer must travel with a
// button held before the button counts as dragging.
const DragThreshold = 6.0

// Input is the raw per-frame input a host feeds into [Context.NewFrame].
// Edge states (clicked, released, dragging) are derived by comparing
// against the previous frame.
type Input struct {
	MousePos   geom.Vec2
	MouseDown  [3]bool
	MouseWheel float32
	Mods       ModKeys
	DeltaTime  float32
	Focused    bool
}

type buttonState struct {
	down      bool
	clicked   bool
	released  bool
	dragging  bool
	pressPos  geom.Vec2
	everMoved bool
}

type groupState struct {
	savedLineStartX float32
	startCursor     geom.Vec2
	bounds          geom.Rect
	hasItems        bool
	anyHovered      bool
}

// GroupResult describes a closed layout group: its accumulated screen
// bounds and whether any identified item inside it was hovered this
// frame.
type GroupResult struct {
	Bounds     geom.Rect
	AnyHovered bool
}

// Context is a headless immediate-mode UI context. Create one with
// [NewContext], call [Context.NewFrame] once per frame with fresh input,
// then issue layout and draw calls. Context is not safe for concurrent
// use; all calls must come from the frame-driving goroutine.
type Context struct {
	// Style metrics. Callers may overwrite these per frame (nodewire
	// scales them by the camera before declaring nodes).
	FramePadding geom.Vec2
	ItemSpacing  geom.Vec2

	drawList *DrawList

	mousePos   geom.Vec2
	mouseDelta geom.Vec2
	wheel      float32
	mods       ModKeys
	deltaTime  float32
	focused    bool
	buttons    [mouseButtonCount]buttonState

	idStack []ID

	cursor         geom.Vec2
	lineStartX     float32
	prevLine       geom.Vec2 // x: right edge of last item, y: top of its line
	prevLineHeight float32
	sameLine       bool

	groups      []groupState
	lastItem    geom.Rect
	itemHovered bool // any identified item hovered this frame

	activeID ID

	itemWidths []float32

	baseFontSize float32
	fontScale    float32
}

// NewContext creates a context with default style metrics and a 20px
// base font.
func NewContext() *Context {
	return &Context{
		FramePadding: geom.V(4, 4),
		ItemSpacing:  geom.V(8, 4),
		drawList:     newDrawList(),
		idStack:      []ID{0},
		baseFontSize: 20,
		fontScale:    1,
	}
}

// NewFrame begins a new frame: input edges are derived from in, per-frame
// item state is cleared, and the draw list is reset.
func (c *Context) NewFrame(in Input) {
	c.mouseDelta = in.MousePos.Sub(c.mousePos)
	c.mousePos = in.MousePos
	c.wheel = in.MouseWheel
	c.mods = in.Mods
	c.deltaTime = in.DeltaTime
	c.focused = in.Focused

	for b := range c.buttons {
		st := &c.buttons[b]
		wasDown := st.down
		st.down = in.MouseDown[b]
		st.clicked = st.down && !wasDown
		st.released = !st.down && wasDown
		if st.clicked {
			st.pressPos = in.MousePos
			st.everMoved = false
			st.dragging = false
		}
		if st.down {
			delta := in.MousePos.Sub(st.pressPos)
			if geom.Abs(delta.X) >= DragThreshold || geom.Abs(delta.Y) >= DragThreshold {
				st.everMoved = true
			}
			st.dragging = st.everMoved
		} else if !st.released {
			st.dragging = false
		}
	}

	c.itemHovered = false
	c.lastItem = geom.Rect{}
	c.groups = c.groups[:0]
	c.cursor = geom.Vec2{}
	c.lineStartX = 0
	c.prevLine = geom.Vec2{}
	c.prevLineHeight = 0
	c.sameLine = false
	c.drawList.reset()
}

// DrawList returns the context's draw list for the current frame.
func (c *Context) DrawList() *DrawList { return c.drawList }

// Mouse -----------------------------------------------------------------

// MousePos returns the pointer position in screen space.
func (c *Context) MousePos() geom.Vec2 { return c.mousePos }

// MouseDelta returns the pointer movement since the previous frame.
func (c *Context) MouseDelta() geom.Vec2 { return c.mouseDelta }

// Wheel returns this frame's scroll wheel delta.
func (c *Context) Wheel() float32 { return c.wheel }

// DeltaTime returns the host-reported time step for this frame, seconds.
func (c *Context) DeltaTime() float32 { return c.deltaTime }

// Focused reports whether the hosting window has input focus.
func (c *Context) Focused() bool { return c.focused }

// Mods returns the currently held modifier keys.
func (c *Context) Mods() ModKeys { return c.mods }

// AnyModDown reports whether any modifier key is held.
func (c *Context) AnyModDown() bool { return c.mods != 0 }

// MouseDown reports whether b is held this frame.
func (c *Context) MouseDown(b MouseButton) bool { return c.buttons[b].down }

// MouseClicked reports whether b transitioned to down this frame.
func (c *Context) MouseClicked(b MouseButton) bool { return c.buttons[b].clicked }

// MouseReleased reports whether b transitioned to up this frame.
func (c *Context) MouseReleased(b MouseButton) bool { return c.buttons[b].released }

// MouseDragging reports whether b is held and the pointer has moved past
// [DragThreshold] since the press. On the release frame it still reports
// the drag, so release handlers can distinguish drags from plain clicks.
func (c *Context) MouseDragging(b MouseButton) bool { return c.buttons[b].dragging }

// MouseHoveringRect reports whether the pointer is inside r.
func (c *Context) MouseHoveringRect(r geom.Rect) bool { return r.Contains(c.mousePos) }

// ID stack --------------------------------------------------------------

const (
	fnvBasis uint32 = 2166136261
	fnvPrime uint32 = 16777619
)

func hashBytes(seed ID, data []byte) ID {
	h := uint32(seed)
	if h == 0 {
		h = fnvBasis
	}
	for _, b := range data {
		h ^= uint32(b)
		h *= fnvPrime
	}
	return ID(h)
}

// HashString mixes s into seed.
func HashString(seed ID, s string) ID { return hashBytes(seed, []byte(s)) }

// HashInt mixes i into seed.
func HashInt(seed ID, i int) ID {
	var buf [4]byte
	v := uint32(i)
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
	return hashBytes(seed, buf[:])
}

// IDString returns the ID for key s in the current scope.
func (c *Context) IDString(s string) ID { return HashString(c.idStack[len(c.idStack)-1], s) }

// IDInt returns the ID for integer key i in the current scope.
func (c *Context) IDInt(i int) ID { return HashInt(c.idStack[len(c.idStack)-1], i) }

// PushID pushes id as the new scope seed.
func (c *Context) PushID(id ID) { c.idStack = append(c.idStack, id) }

// PushIDString pushes the scope derived from key s.
func (c *Context) PushIDString(s string) { c.PushID(c.IDString(s)) }

// PushIDInt pushes the scope derived from integer key i.
func (c *Context) PushIDInt(i int) { c.PushID(c.IDInt(i)) }

// PopID pops the current scope. Popping the root scope panics.
func (c *Context) PopID() {
	if len(c.idStack) <= 1 {
		panic("imm: PopID on empty ID stack")
	}
	c.idStack = c.idStack[:len(c.idStack)-1]
}

// Active item -----------------------------------------------------------

// SetActiveID marks id as the active (captured) item. Pass 0 to release.
func (c *Context) SetActiveID(id ID) { c.activeID = id }

// ActiveID returns the currently active item id, 0 if none.
func (c *Context) ActiveID() ID { return c.activeID }

// AnyItemFocused reports whether any item currently holds input capture.
func (c *Context) AnyItemFocused() bool { return c.activeID != 0 }

// AnyItemHovered reports whether any identified item added so far this
// frame contained the pointer.
func (c *Context) AnyItemHovered() bool { return c.itemHovered }

// Fonts -----------------------------------------------------------------

// FontSize returns the current scaled font size.
func (c *Context) FontSize() float32 { return c.baseFontSize * c.fontScale }

// BaseFontSize returns the unscaled font size.
func (c *Context) BaseFontSize() float32 { return c.baseFontSize }

// SetBaseFontSize sets the unscaled font size. Sizes <= 0 are ignored.
func (c *Context) SetBaseFontSize(sz float32) {
	if sz > 0 {
		c.baseFontSize = sz
	}
}

// SetFontScale sets the font scale factor (camera zoom).
func (c *Context) SetFontScale(s float32) { c.fontScale = s }

// FontScale returns the current font scale factor.
func (c *Context) FontScale() float32 { return c.fontScale }

// PushItemWidth pushes a width applied to framed widgets until the
// matching [Context.PopItemWidth].
func (c *Context) PushItemWidth(w float32) { c.itemWidths = append(c.itemWidths, w) }

// PopItemWidth pops the innermost pushed item width.
func (c *Context) PopItemWidth() {
	if len(c.itemWidths) == 0 {
		panic("imm: PopItemWidth without matching PushItemWidth")
	}
	c.itemWidths = c.itemWidths[:len(c.itemWidths)-1]
}

// ItemWidth returns the innermost pushed item width, or 0 when widgets
// should size to their content.
func (c *Context) ItemWidth() float32 {
	if len(c.itemWidths) == 0 {
		return 0
	}
	return c.itemWidths[len(c.itemWidths)-1]
}

// FrameHeight returns the standard widget height: font size plus vertical
// frame padding on both sides.
func (c *Context) FrameHeight() float32 { return c.FontSize() + c.FramePadding.Y*2 }

// TextSize returns the extent of s at the current font size. The headless
// core approximates glyph advances with a fixed half-em width.
func (c *Context) TextSize(s string) geom.Vec2 {
	n := 0
	for range s {
		n++
	}
	return geom.V(float32(n)*c.FontSize()*0.5, c.FontSize())
}

// Layout ----------------------------------------------------------------

// SetCursorScreenPos moves the layout cursor and starts a fresh line at p.
func (c *Context) SetCursorScreenPos(p geom.Vec2) {
	c.cursor = p
	c.lineStartX = p.X
	c.prevLine = p
	c.prevLineHeight = 0
	c.sameLine = false
}

// CursorScreenPos returns the current layout cursor.
func (c *Context) CursorScreenPos() geom.Vec2 { return c.cursor }

// SameLine keeps the next item on the line of the previous one.
func (c *Context) SameLine() {
	c.cursor = geom.V(c.prevLine.X+c.ItemSpacing.X, c.prevLine.Y)
	c.sameLine = true
}

// ItemSize advances the layout cursor past an item of the given size
// placed at the current cursor.
func (c *Context) ItemSize(sz geom.Vec2) {
	top := c.cursor.Y
	lineH := sz.Y
	if c.sameLine {
		lineH = max(c.prevLineHeight, sz.Y)
		c.sameLine = false
	}
	c.prevLine = geom.V(c.cursor.X+sz.X, top)
	c.prevLineHeight = lineH
	c.cursor = geom.V(c.lineStartX, top+lineH+c.ItemSpacing.Y)
}

// ItemAdd registers an item's screen bounds. Identified items (id != 0)
// participate in hover tracking; anonymous items only grow the enclosing
// group's bounds.
func (c *Context) ItemAdd(bb geom.Rect, id ID) {
	c.lastItem = bb
	hovered := id != 0 && bb.Contains(c.mousePos)
	if hovered {
		c.itemHovered = true
	}
	if n := len(c.groups); n > 0 {
		g := &c.groups[n-1]
		if g.hasItems {
			g.bounds = geom.Rect{Min: g.bounds.Min.Min(bb.Min), Max: g.bounds.Max.Max(bb.Max)}
		} else {
			g.bounds = bb
			g.hasItems = true
		}
		if hovered {
			g.anyHovered = true
		}
	}
}

// LastItemRect returns the bounds of the most recently added item or
// closed group.
func (c *Context) LastItemRect() geom.Rect { return c.lastItem }

// BeginGroup opens a layout group capturing the bounds of the items added
// until the matching [Context.EndGroup].
func (c *Context) BeginGroup() {
	c.groups = append(c.groups, groupState{
		savedLineStartX: c.lineStartX,
		startCursor:     c.cursor,
	})
	c.lineStartX = c.cursor.X
}

// EndGroup closes the innermost group and registers it as an item of the
// enclosing scope. It panics if no group is open.
func (c *Context) EndGroup() GroupResult {
	n := len(c.groups)
	if n == 0 {
		panic("imm: EndGroup without BeginGroup")
	}
	g := c.groups[n-1]
	c.groups = c.groups[:n-1]
	c.lineStartX = g.savedLineStartX

	bb := g.bounds
	if !g.hasItems {
		bb = geom.Rect{Min: g.startCursor, Max: g.startCursor}
	}

	c.cursor = bb.Min
	c.ItemSize(bb.Size())
	c.ItemAdd(bb, 0)
	if g.anyHovered {
		c.itemHovered = true
		if m := len(c.groups); m > 0 {
			c.groups[m-1].anyHovered = true
		}
	}
	return GroupResult{Bounds: bb, AnyHovered: g.anyHovered}
}
