package tracker

import (
	"math"
)

// Point represents the integer x,y coordinates of a bounding box centroid
type Point struct {
	X, Y int
}

// Distance returns the Euclidean distance to another point
func (p Point) Distance(o Point) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect represents an axis aligned rectangle in (x1, y1, x2, y2) corner
// format, the native output form of the object detector
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// NewRect creates a new Rect with given corner coordinates
func NewRect(x1, y1, x2, y2 float32) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the width of the rectangle
func (r Rect) Width() float32 {
	return r.X2 - r.X1
}

// Height returns the height of the rectangle
func (r Rect) Height() float32 {
	return r.Y2 - r.Y1
}

// Centroid returns the rounded midpoint of the rectangle's two corners.
// Degenerate or inverted rectangles still produce a centroid from whatever
// coordinates are given.
func (r Rect) Centroid() Point {
	return Point{
		X: int(math.Round(float64(r.X1+r.X2) / 2.0)),
		Y: int(math.Round(float64(r.Y1+r.Y2) / 2.0)),
	}
}
