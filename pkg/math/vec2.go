package math

import "math"

// Vec2 is a 2D vector. In plan space X maps to world X and Y to world Z.
type Vec2 struct {
	X, Y float64
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}
