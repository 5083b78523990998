package segment

import (
	"image"
	"sort"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// Contour segments a page from the bounding boxes of its ink blobs. It copes
// better than RowScan with glyphs that touch across a row band.
type Contour struct {
	opts Options
}

// NewContour returns a contour segmenter.
func NewContour(opts Options) *Contour {
	return &Contour{opts: opts}
}

// Segment returns the page's glyphs with word breaks inserted against the
// 75th percentile glyph width.
func (s *Contour) Segment(page *image.Gray) []Token {
	rects, w75 := s.rects(page)
	return Tokenize(rects, w75, s.opts.ContourSpaceDivisor, s.opts.ContourOverlapFactor)
}

// Rects returns the glyph boxes in reading order.
func (s *Contour) Rects(page *image.Gray) []geometry.Rect {
	rects, _ := s.rects(page)
	return rects
}

func (s *Contour) rects(page *image.Gray) ([]geometry.Rect, float64) {
	blurred := imaging.Blur(page, s.opts.BlurSigma)
	components := detection.FindComponents(blurred, s.opts.InkLevel)

	boxes := make([]geometry.Rect, len(components))
	for i, c := range components {
		boxes[i] = c.Bounds
	}
	w75, h75 := Percentile75(boxes)

	typical := w75 * h75
	kept := make([]geometry.Rect, 0, len(boxes))
	for _, r := range boxes {
		area := float64(r.Area())
		if area < s.opts.MinAreaRatio*typical || area > s.opts.MaxAreaRatio*typical {
			continue
		}
		kept = append(kept, r)
	}

	lines := SortIntoLines(kept, h75/s.opts.LineGapDivisor)
	return RemoveEnclosingRects(lines), w75
}

// SortIntoLines orders rects for reading. Rects are sorted by y and a new
// line starts wherever the vertical gap between consecutive rects exceeds
// maxGap; each line is then sorted by x.
func SortIntoLines(rects []geometry.Rect, maxGap float64) []geometry.Rect {
	byY := make([]geometry.Rect, len(rects))
	copy(byY, rects)
	sort.SliceStable(byY, func(i, j int) bool { return byY[i].Y < byY[j].Y })

	sorted := make([]geometry.Rect, 0, len(byY))
	flush := func(line []geometry.Rect) {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		sorted = append(sorted, line...)
	}

	start := 0
	for i := 1; i < len(byY); i++ {
		if float64(geometry.VerticalGap(byY[i-1], byY[i])) > maxGap {
			flush(byY[start:i])
			start = i
		}
	}
	if len(byY) > 0 {
		flush(byY[start:])
	}
	return sorted
}

// RemoveEnclosingRects drops rects nested inside their neighbor in the
// sequence, keeping the outer one. The result has no adjacent pair where one
// encloses the other, so applying it again changes nothing.
func RemoveEnclosingRects(rects []geometry.Rect) []geometry.Rect {
	kept := make([]geometry.Rect, 0, len(rects))
	for _, r := range rects {
		for len(kept) > 0 && encloses(r, kept[len(kept)-1]) {
			kept = kept[:len(kept)-1]
		}
		if len(kept) > 0 && encloses(kept[len(kept)-1], r) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func encloses(outer, inner geometry.Rect) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y && geometry.RectEnclosure(outer, inner)
}
