package geometry

import "image"

// Rect is an axis-aligned box given by its top-left corner and its size.
//
// Rects are plain values; every operation in this package returns a new one.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Area returns W*H.
func (r Rect) Area() int { return r.W * r.H }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Image converts the rect to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// RectFromImage converts an image.Rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// RectEnclosure reports whether inner's right and bottom edges fall strictly
// inside outer's. Left and top edges are not checked; callers walking rects in
// reading order already know inner does not start before outer.
func RectEnclosure(outer, inner Rect) bool {
	return inner.Right() < outer.Right() && inner.Bottom() < outer.Bottom()
}

// HorizontalGap returns the number of columns between r1's right edge and r2's
// left edge. Negative values mean the rects overlap horizontally.
func HorizontalGap(r1, r2 Rect) int {
	return r2.X - (r1.X + r1.W)
}

// VerticalGap returns the number of rows between r1's bottom edge and r2's top edge.
func VerticalGap(r1, r2 Rect) int {
	return r2.Y - (r1.Y + r1.H)
}
