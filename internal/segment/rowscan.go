package segment

import (
	"image"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

// RowScan segments a page by scanning ink rows, then ink columns inside each row band.
type RowScan struct {
	opts Options
}

// NewRowScan returns a row-scan segmenter.
func NewRowScan(opts Options) *RowScan {
	return &RowScan{opts: opts}
}

// Segment returns the page's glyphs with word breaks inserted against the
// median glyph width.
func (s *RowScan) Segment(page *image.Gray) []Token {
	rects := s.Rects(page)
	return Tokenize(rects, MedianWidth(rects), s.opts.SpaceDivisor, s.opts.OverlapFactor)
}

// Rects returns the glyph boxes in row-major order.
func (s *RowScan) Rects(page *image.Gray) []geometry.Rect {
	mask, width, height := inkMask(page, s.opts.BlurSigma, s.opts.InkLevel)
	minBand := s.opts.MinBandRatio * float64(height)

	rects := make([]geometry.Rect, 0)
	for _, band := range rowBands(mask, width, height) {
		if float64(band[1]-band[0]) < minBand {
			continue
		}
		for _, r := range bandGlyphs(mask, width, band[0], band[1]) {
			if r.Area() > s.opts.MinGlyphArea {
				rects = append(rects, r)
			}
		}
	}
	return rects
}

// rowBands returns the maximal runs [start, end) of rows holding ink.
func rowBands(mask []bool, width, height int) [][2]int {
	bands := make([][2]int, 0)
	y := 0
	for y < height {
		for y < height && !inkInRow(mask, width, y, 0, width) {
			y++
		}
		start := y
		for y < height && inkInRow(mask, width, y, 0, width) {
			y++
		}
		if start < height {
			bands = append(bands, [2]int{start, y})
		}
	}
	return bands
}

// bandGlyphs splits the band [top, bottom) into runs of ink columns and
// tightens each run vertically to its first and last ink rows.
func bandGlyphs(mask []bool, width, top, bottom int) []geometry.Rect {
	rects := make([]geometry.Rect, 0)
	x := 0
	for x < width {
		for x < width && !inkInColumn(mask, width, x, top, bottom) {
			x++
		}
		start := x
		for x < width && inkInColumn(mask, width, x, top, bottom) {
			x++
		}
		if start == width {
			break
		}

		y0 := top
		for !inkInRow(mask, width, y0, start, x) {
			y0++
		}
		y1 := bottom - 1
		for !inkInRow(mask, width, y1, start, x) {
			y1--
		}
		rects = append(rects, geometry.Rect{X: start, Y: y0, W: x - start, H: y1 - y0 + 1})
	}
	return rects
}

func inkInRow(mask []bool, width, y, x0, x1 int) bool {
	for _, ink := range mask[y*width+x0 : y*width+x1] {
		if ink {
			return true
		}
	}
	return false
}

func inkInColumn(mask []bool, width, x, y0, y1 int) bool {
	for y := y0; y < y1; y++ {
		if mask[y*width+x] {
			return true
		}
	}
	return false
}
