package segment

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// Strategy names accepted by New.
const (
	RowScanName = "rowscan"
	ContourName = "contour"
)

// ErrUnknownStrategy is returned by New for an unrecognized strategy name.
var ErrUnknownStrategy = errors.New("unknown segmentation strategy")

// GlyphSegmenter turns a binarized page into glyph tokens in reading order.
type GlyphSegmenter interface {
	Segment(page *image.Gray) []Token
}

// Options holds the segmentation thresholds. Defaults come from
// DefaultOptions and were tuned on upright printed pages.
type Options struct {
	// BlurSigma is the Gaussian sigma applied before scanning.
	BlurSigma float64 `yaml:"blur_sigma" json:"blur_sigma"`

	// InkLevel: pixels darker than this are ink.
	InkLevel uint8 `yaml:"ink_level" json:"ink_level"`

	// MinBandRatio drops row bands shorter than this fraction of the page height.
	MinBandRatio float64 `yaml:"min_band_ratio" json:"min_band_ratio"`

	// MinGlyphArea drops row-scan glyphs whose area is not above it.
	MinGlyphArea int `yaml:"min_glyph_area" json:"min_glyph_area"`

	// SpaceDivisor and OverlapFactor place row-scan word breaks: a gap wider
	// than medianWidth/SpaceDivisor, or an overlap beyond
	// OverlapFactor*medianWidth.
	SpaceDivisor  float64 `yaml:"space_divisor" json:"space_divisor"`
	OverlapFactor float64 `yaml:"overlap_factor" json:"overlap_factor"`

	// The same two thresholds for the contour strategy, measured against the
	// 75th percentile width.
	ContourSpaceDivisor  float64 `yaml:"contour_space_divisor" json:"contour_space_divisor"`
	ContourOverlapFactor float64 `yaml:"contour_overlap_factor" json:"contour_overlap_factor"`

	// MinAreaRatio and MaxAreaRatio bound contour boxes relative to the
	// 75th percentile glyph area.
	MinAreaRatio float64 `yaml:"min_area_ratio" json:"min_area_ratio"`
	MaxAreaRatio float64 `yaml:"max_area_ratio" json:"max_area_ratio"`

	// LineGapDivisor starts a new contour line when the vertical gap exceeds
	// h75/LineGapDivisor.
	LineGapDivisor float64 `yaml:"line_gap_divisor" json:"line_gap_divisor"`
}

// DefaultOptions returns the tuned thresholds.
func DefaultOptions() Options {
	return Options{
		BlurSigma:            0.8,
		InkLevel:             128,
		MinBandRatio:         0.05,
		MinGlyphArea:         200,
		SpaceDivisor:         1.5,
		OverlapFactor:        2,
		ContourSpaceDivisor:  2.75,
		ContourOverlapFactor: 3,
		MinAreaRatio:         0.2,
		MaxAreaRatio:         5,
		LineGapDivisor:       2,
	}
}

// New returns the segmenter registered under name. An empty name selects
// the row-scan strategy.
func New(name string, opts Options) (GlyphSegmenter, error) {
	switch name {
	case "", RowScanName:
		return &RowScan{opts: opts}, nil
	case ContourName:
		return &Contour{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Strategies lists the accepted strategy names.
func Strategies() []string {
	return []string{RowScanName, ContourName}
}

// Tokenize interleaves rects with Space tokens. A space follows r1 when the
// gap to the next rect is wider than refWidth/divisor or when the next rect
// starts more than overlap*refWidth to the left of r1's right edge.
func Tokenize(rects []geometry.Rect, refWidth, divisor, overlap float64) []Token {
	tokens := make([]Token, 0, len(rects))
	for i, r := range rects {
		tokens = append(tokens, Token{Rect: r})
		if i == len(rects)-1 {
			break
		}
		gap := float64(geometry.HorizontalGap(r, rects[i+1]))
		if gap > refWidth/divisor || gap < -overlap*refWidth {
			tokens = append(tokens, SpaceToken)
		}
	}
	return tokens
}

// MedianWidth returns the middle element of the sorted widths, sorted[n/2].
// For an even count this is the upper of the two middle values.
func MedianWidth(rects []geometry.Rect) float64 {
	return float64(pick(widths(rects), 1, 2))
}

// Percentile75 returns the widths and heights at index 3n/4 of their sorted lists.
func Percentile75(rects []geometry.Rect) (w, h float64) {
	heights := make([]int, len(rects))
	for i, r := range rects {
		heights[i] = r.H
	}
	return float64(pick(widths(rects), 3, 4)), float64(pick(heights, 3, 4))
}

func widths(rects []geometry.Rect) []int {
	ws := make([]int, len(rects))
	for i, r := range rects {
		ws[i] = r.W
	}
	return ws
}

// pick sorts values and returns values[num*n/den], or 0 for an empty list.
func pick(values []int, num, den int) int {
	if len(values) == 0 {
		return 0
	}
	sort.Ints(values)
	return values[num*len(values)/den]
}

// inkMask blurs page and marks the pixels darker than level.
func inkMask(page *image.Gray, sigma float64, level uint8) (mask []bool, width, height int) {
	blurred := imaging.Blur(page, sigma)
	width, height = blurred.Bounds().Dx(), blurred.Bounds().Dy()
	mask = make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := blurred.Pix[y*blurred.Stride : y*blurred.Stride+width]
		for x, v := range row {
			mask[y*width+x] = v < level
		}
	}
	return mask, width, height
}
