// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromCenter creates a Rect of the given size centered on c.
func RectFromCenter(c Point2D, width, height float64) Rect {
	return Rect{X: c.X - width/2, Y: c.Y - height/2, Width: width, Height: height}
}

// Contains returns true if the point is inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ContainsRect reports whether other lies inside r, allowing eps of overshoot.
func (r Rect) ContainsRect(other Rect, eps float64) bool {
	return other.X >= r.X-eps && other.Y >= r.Y-eps &&
		other.X+other.Width <= r.X+r.Width+eps &&
		other.Y+other.Height <= r.Y+r.Height+eps
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Point2D {
	return Point2D{X: r.X, Y: r.Y}
}

// TopRight returns the top-right corner.
func (r Rect) TopRight() Point2D {
	return Point2D{X: r.X + r.Width, Y: r.Y}
}

// BottomLeft returns the bottom-left corner.
func (r Rect) BottomLeft() Point2D {
	return Point2D{X: r.X, Y: r.Y + r.Height}
}

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point2D {
	return Point2D{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}
