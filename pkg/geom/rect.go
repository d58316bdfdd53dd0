package geom

// Rect is an axis-aligned rectangle described by its top-left (Min) and
// bottom-right (Max) corners. A rect with Max componentwise below Min is
// empty.
type Rect struct {
	Min, Max Vec2
}

// R constructs a Rect from two corner points, normalizing so that Min is
// the componentwise minimum of the two.
func R(a, b Vec2) Rect {
	return Rect{Min: a.Min(b), Max: a.Max(b)}
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of the rect.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// Size returns the extent of the rect as a vector.
func (r Rect) Size() Vec2 { return r.Max.Sub(r.Min) }

// Center returns the midpoint of the rect.
func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) * 0.5, (r.Min.Y + r.Max.Y) * 0.5}
}

// Expand grows the rect outward by amount on every side.
// A negative amount shrinks it.
func (r Rect) Expand(amount float32) Rect {
	return Rect{
		Min: Vec2{r.Min.X - amount, r.Min.Y - amount},
		Max: Vec2{r.Max.X + amount, r.Max.Y + amount},
	}
}

// Contains reports whether p lies inside the rect. The Min edges are
// inclusive and the Max edges exclusive, so adjacent rects never both
// claim a shared boundary point.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Overlaps reports whether r and o intersect with positive area.
// Rects that merely touch along an edge or corner do not overlap; this
// strict convention is what marquee selection is specified against.
func (r Rect) Overlaps(o Rect) bool {
	return r.Max.X > o.Min.X &&
		r.Min.X < o.Max.X &&
		r.Max.Y > o.Min.Y &&
		r.Min.Y < o.Max.Y
}
