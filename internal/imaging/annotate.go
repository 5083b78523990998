package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

// AnnotateOptions selects what Annotate draws on top of a page.
type AnnotateOptions struct {
	// Corners outlines a detected page boundary when non-nil.
	Corners *geometry.Quad

	// Words are outlined glyph by glyph. When Numbered is set, each word
	// gets its 1-based index drawn above its first glyph.
	Words    [][]geometry.Rect
	Numbered bool

	// BoxColor and CornerColor are hex strings ("#RRGGBB" or "#RRGGBBAA").
	// Invalid or empty values fall back to red boxes and green corners.
	BoxColor    string
	CornerColor string
}

// AnnotateResult contains the annotated image encoded as base64 PNG.
type AnnotateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	GlyphCount  int    `json:"glyph_count"`
}

// Annotate renders a debugging overlay of the boundary and segmentation output.
func Annotate(img image.Image, opts AnnotateOptions) (*AnnotateResult, error) {
	bounds := img.Bounds()

	boxColor, err := parseHexColor(opts.BoxColor)
	if err != nil {
		boxColor = color.RGBA{255, 0, 0, 255}
	}
	cornerColor, err := parseHexColor(opts.CornerColor)
	if err != nil {
		cornerColor = color.RGBA{0, 200, 0, 255}
	}

	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	glyphs := 0
	for i, word := range opts.Words {
		for _, r := range word {
			drawRect(result, r, boxColor)
			glyphs++
		}
		if opts.Numbered && len(word) > 0 {
			labelColor := color.RGBA{255, 255, 255, 255}
			bgColor := color.RGBA{0, 0, 0, 180}
			drawLabel(result, word[0].X, word[0].Y-8, strconv.Itoa(i+1), labelColor, bgColor)
		}
	}

	if opts.Corners != nil {
		q := *opts.Corners
		for i := range q {
			drawLine(result, q[i].ImagePoint(), q[(i+1)%len(q)].ImagePoint(), cornerColor)
		}
		for _, p := range q {
			c := p.ImagePoint()
			drawRect(result, geometry.Rect{X: c.X - 3, Y: c.Y - 3, W: 7, H: 7}, cornerColor)
		}
	}

	encoded, err := EncodePNGBase64(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}

	return &AnnotateResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		GlyphCount:  glyphs,
	}, nil
}

// drawRect outlines r with a one pixel border.
func drawRect(img *image.RGBA, r geometry.Rect, c color.RGBA) {
	if r.Empty() {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	drawLine(img, image.Pt(r.X, r.Y), image.Pt(right, r.Y), c)
	drawLine(img, image.Pt(r.X, bottom), image.Pt(right, bottom), c)
	drawLine(img, image.Pt(r.X, r.Y), image.Pt(r.X, bottom), c)
	drawLine(img, image.Pt(right, r.Y), image.Pt(right, bottom), c)
}

// drawLine draws a Bresenham line, skipping pixels outside the image.
func drawLine(img *image.RGBA, p0, p1 image.Point, c color.RGBA) {
	dx, dy := absInt(p1.X-p0.X), -absInt(p1.Y-p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	bounds := img.Bounds()
	e := dx + dy
	x, y := p0.X, p0.Y
	for {
		if (image.Point{X: x, Y: y}).In(bounds) {
			img.SetRGBA(x, y, c)
		}
		if x == p1.X && y == p1.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a word number in a 3x5 pixel digit font.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
