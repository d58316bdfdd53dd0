// Package geom provides the 2D vector and rectangle math used throughout
// nodewire. All coordinates are float32, matching the precision of typical
// immediate-mode rendering backends.
package geom

import "math"

// Vec2 is a 2D point or extent.
type Vec2 struct {
	X, Y float32
}

// V is shorthand for constructing a Vec2.
func V(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + o componentwise.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o componentwise.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v * o componentwise.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Div returns v divided by s. s must be nonzero.
func (v Vec2) Div(s float32) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Min returns the componentwise minimum of v and o.
func (v Vec2) Min(o Vec2) Vec2 {
	return Vec2{min(v.X, o.X), min(v.Y, o.Y)}
}

// Max returns the componentwise maximum of v and o.
func (v Vec2) Max(o Vec2) Vec2 {
	return Vec2{max(v.X, o.X), max(v.Y, o.Y)}
}

// Floor returns v with both components rounded down.
func (v Vec2) Floor() Vec2 {
	return Vec2{Floor(v.X), Floor(v.Y)}
}

// Floor rounds x toward negative infinity.
func Floor(x float32) float32 { return float32(math.Floor(float64(x))) }

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Lerp linearly interpolates between a and b by t. t is not clamped.
func Lerp(a, b, t float32) float32 { return a + (b-a)*t }

// LerpVec2 linearly interpolates between a and b by t. t is not clamped.
func LerpVec2(a, b Vec2, t float32) Vec2 {
	return Vec2{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// Clamp limits x to the range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
