package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

// Glyph normalization defaults used by the classifier input contract.
const (
	DefaultGlyphSize   = 64
	DefaultGlyphBorder = 16
)

// CropGlyph extracts rect from page. The rect is clipped to the page; a rect
// entirely outside it yields an empty image.
func CropGlyph(page *image.Gray, rect geometry.Rect) *image.Gray {
	r := rect.Image().Add(page.Bounds().Min).Intersect(page.Bounds())
	if r.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	return grayFromRGBA(imaging.Crop(page, r))
}

// NormalizeGlyph turns a cropped glyph into a size x size classifier input.
//
// The glyph is centered on a white square as wide as its longer side, then
// given a white border of border pixels on every side, then scaled to size.
// Padding first keeps the aspect ratio, so a narrow "l" is not stretched into
// a block.
func NormalizeGlyph(glyph *image.Gray, size, border int) *image.Gray {
	bounds := glyph.Bounds()
	side := bounds.Dx()
	if bounds.Dy() > side {
		side = bounds.Dy()
	}
	if side == 0 {
		return NewBlank(size, size, 255)
	}

	square := imaging.PasteCenter(imaging.New(side, side, color.White), glyph)
	framed := imaging.PasteCenter(imaging.New(side+2*border, side+2*border, color.White), square)
	return grayFromRGBA(imaging.Resize(framed, size, size, imaging.Lanczos))
}
