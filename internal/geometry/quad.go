package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotQuad is returned when corner ordering is given anything but four points.
var ErrNotQuad = errors.New("exactly four points are required")

// Quad holds four corners in canonical order: top-left, top-right,
// bottom-right, bottom-left.
type Quad [4]Point

// TopLeft returns the first corner.
func (q Quad) TopLeft() Point { return q[0] }

// TopRight returns the second corner.
func (q Quad) TopRight() Point { return q[1] }

// BottomRight returns the third corner.
func (q Quad) BottomRight() Point { return q[2] }

// BottomLeft returns the fourth corner.
func (q Quad) BottomLeft() Point { return q[3] }

// Points returns the corners as a slice in canonical order.
func (q Quad) Points() []Point {
	return []Point{q[0], q[1], q[2], q[3]}
}

// OrderPoints arranges four unordered points as top-left, top-right,
// bottom-right, bottom-left.
//
// The top-left corner has the smallest x+y and the bottom-right the largest.
// The top-right corner has the smallest y-x and the bottom-left the largest.
// This holds for any input order and for rotations up to ±45°.
func OrderPoints(points []Point) (Quad, error) {
	if len(points) != 4 {
		return Quad{}, fmt.Errorf("order points: got %d: %w", len(points), ErrNotQuad)
	}

	var q Quad
	minSum, maxSum := math.Inf(1), math.Inf(-1)
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		sum := p.X + p.Y
		diff := p.Y - p.X
		if sum < minSum {
			minSum = sum
			q[0] = p
		}
		if sum > maxSum {
			maxSum = sum
			q[2] = p
		}
		if diff < minDiff {
			minDiff = diff
			q[1] = p
		}
		if diff > maxDiff {
			maxDiff = diff
			q[3] = p
		}
	}
	return q, nil
}

// QuadArea returns the area of the quadrilateral using the shoelace formula.
func QuadArea(q Quad) float64 {
	var sum float64
	for i := range q {
		j := (i + 1) % len(q)
		sum += q[i].X*q[j].Y - q[j].X*q[i].Y
	}
	return math.Abs(sum) / 2
}
