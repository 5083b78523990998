package geometry

import (
	"image"
	"math"
)

// MinIntersectionAngle is the smallest angle between two lines, in radians, for
// their intersection to be accepted. Shallower crossings are numerically unstable.
const MinIntersectionAngle = math.Pi / 16

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for building a Point from integer pixel coordinates.
func Pt(x, y int) Point {
	return Point{X: float64(x), Y: float64(y)}
}

// ImagePoint rounds p to the nearest pixel.
func (p Point) ImagePoint() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Distance returns the Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// LineSegment is a detected segment given by its two endpoints.
type LineSegment struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Length returns the Euclidean length of the segment.
func (s LineSegment) Length() float64 {
	return Distance(s.P1, s.P2)
}

// Equation returns the line equation through the segment's endpoints.
func (s LineSegment) Equation() LineEquation {
	return LineEquationFrom(s.P1, s.P2)
}

// LineEquation is a line in slope-intercept form y = M*x + B.
//
// Vertical lines cannot be written that way; they are stored with M = +Inf and
// B holding the x coordinate of the line.
type LineEquation struct {
	M float64 `json:"m"`
	B float64 `json:"b"`
}

// Vertical reports whether the equation uses the vertical-line sentinel.
func (l LineEquation) Vertical() bool {
	return math.IsInf(l.M, 1)
}

// At evaluates the line at x. It returns NaN for vertical lines.
func (l LineEquation) At(x float64) float64 {
	if l.Vertical() {
		return math.NaN()
	}
	return l.M*x + l.B
}

// LineEquationFrom returns the equation of the line through p1 and p2.
func LineEquationFrom(p1, p2 Point) LineEquation {
	if p1.X == p2.X {
		return LineEquation{M: math.Inf(1), B: p1.X}
	}
	m := (p2.Y - p1.Y) / (p2.X - p1.X)
	return LineEquation{M: m, B: p1.Y - m*p1.X}
}

// Intersect returns the intersection of two lines when it is usable.
//
// The second return value is false when the lines are parallel (including two
// vertical lines), when the crossing falls outside bounds, or when the angle
// between the lines is below MinIntersectionAngle. Coordinates are truncated to
// whole pixels and are relative to bounds.Min.
func Intersect(eq1, eq2 LineEquation, bounds image.Rectangle) (Point, bool) {
	if eq1.M == eq2.M {
		return Point{}, false
	}
	// Fixed argument order keeps the result bit-identical when eq1 and eq2 are swapped.
	if eq2.M < eq1.M || (eq2.M == eq1.M && eq2.B < eq1.B) {
		eq1, eq2 = eq2, eq1
	}

	var x, y float64
	switch {
	case eq1.Vertical():
		x = eq1.B
		y = eq2.M*x + eq2.B
	case eq2.Vertical():
		x = eq2.B
		y = eq1.M*x + eq1.B
	default:
		// m1*x + b1 = m2*x + b2
		x = (eq2.B - eq1.B) / (eq1.M - eq2.M)
		y = eq1.M*x + eq1.B
	}

	if x < 0 || x > float64(bounds.Dx()-1) || y < 0 || y > float64(bounds.Dy()-1) {
		return Point{}, false
	}

	if angleBetween(eq1, eq2) < MinIntersectionAngle {
		return Point{}, false
	}

	return Point{X: math.Trunc(x), Y: math.Trunc(y)}, true
}

// angleBetween returns the acute angle between two non-parallel lines.
func angleBetween(eq1, eq2 LineEquation) float64 {
	if eq1.Vertical() {
		return math.Pi/2 - math.Atan(math.Abs(eq2.M))
	}
	if eq2.Vertical() {
		return math.Pi/2 - math.Atan(math.Abs(eq1.M))
	}
	if eq1.M*eq2.M == -1 {
		return math.Pi / 2
	}
	return math.Atan(math.Abs((eq1.M - eq2.M) / (1 + eq1.M*eq2.M)))
}

// FilterClosePoints drops every point lying closer than minDistance to an
// earlier point that survived. The scan is left to right, so the first
// occurrence of a cluster wins.
func FilterClosePoints(points []Point, minDistance float64) []Point {
	filtered := make([]Point, 0, len(points))
	for _, p := range points {
		tooClose := false
		for _, kept := range filtered {
			if Distance(kept, p) < minDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
