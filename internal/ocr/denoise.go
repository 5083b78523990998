package ocr

import (
	"image"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// MedianDenoiser removes specks smaller than its window from a glyph.
type MedianDenoiser struct {
	Radius float64
}

// Denoise applies the median filter. A zero Radius returns a copy.
func (d MedianDenoiser) Denoise(glyph *image.Gray) *image.Gray {
	return imaging.Median(glyph, d.Radius)
}
