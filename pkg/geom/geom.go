// Package geom provides the 2D primitives used by the block layout engine.
//
// Coordinates are float64 canvas units. Rectangles are stored as origin plus
// size and follow the conventions of a retained-mode scene graph: a block's
// rectangle is expressed in its own coordinate system and its position is
// relative to its parent, so [Rect.Translate] with a position maps a local
// rectangle into the parent's space.
package geom

import (
	"fmt"
	"math"
)

// Point is a position or offset on the canvas.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Length returns the distance of p from the origin.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Rect is an axis-aligned rectangle with origin (X, Y) and size (W, H).
type Rect struct {
	X, Y, W, H float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Left returns the minimum X coordinate.
func (r Rect) Left() float64 { return r.X }

// Top returns the minimum Y coordinate.
func (r Rect) Top() float64 { return r.Y }

// Right returns the maximum X coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the maximum Y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) TopLeft() Point     { return Point{r.X, r.Y} }
func (r Rect) TopRight() Point    { return Point{r.Right(), r.Y} }
func (r Rect) BottomLeft() Point  { return Point{r.X, r.Bottom()} }
func (r Rect) BottomRight() Point { return Point{r.Right(), r.Bottom()} }

// IsNull reports whether the rectangle has zero width and zero height.
// A null rectangle is the identity element of [Rect.Union].
func (r Rect) IsNull() bool { return r.W == 0 && r.H == 0 }

// Translate returns r moved by p.
func (r Rect) Translate(p Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Adjust moves the left/top edges by dx1/dy1 and the right/bottom edges by dx2/dy2.
func (r Rect) Adjust(dx1, dy1, dx2, dy2 float64) Rect {
	return Rect{
		X: r.X + dx1,
		Y: r.Y + dy1,
		W: r.W - dx1 + dx2,
		H: r.H - dy1 + dy2,
	}
}

// Union returns the smallest rectangle containing both r and o.
// If either rectangle is null the other one is returned unchanged.
func (r Rect) Union(o Rect) Rect {
	if r.IsNull() {
		return o
	}
	if o.IsNull() {
		return r
	}
	left := math.Min(r.Left(), o.Left())
	top := math.Min(r.Top(), o.Top())
	right := math.Max(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.W, r.H)
}

// Line is a segment between two points, used for insertion guides.
type Line struct {
	P1, P2 Point
}

// Length returns the length of the segment.
func (l Line) Length() float64 { return l.P2.Sub(l.P1).Length() }

// IsHorizontal reports whether both endpoints share the same Y coordinate.
func (l Line) IsHorizontal() bool { return l.P1.Y == l.P2.Y }
