package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

func decodeAnnotated(t *testing.T, result *AnnotateResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestAnnotate_GlyphBoxes(t *testing.T) {
	page := NewBlank(100, 60, 255)
	words := [][]geometry.Rect{
		{{X: 10, Y: 20, W: 10, H: 20}, {X: 25, Y: 20, W: 10, H: 20}},
		{{X: 60, Y: 20, W: 10, H: 20}},
	}

	result, err := Annotate(page, AnnotateOptions{Words: words, BoxColor: "#0000FF"})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if result.Width != 100 || result.Height != 60 || result.GlyphCount != 3 {
		t.Errorf("result = %dx%d with %d glyphs, want 100x60 with 3", result.Width, result.Height, result.GlyphCount)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	img := decodeAnnotated(t, result)
	if r, g, b := rgbAt(img, 10, 30); r != 0 || g != 0 || b != 255 {
		t.Errorf("box edge at (10,30) = (%d,%d,%d), want blue", r, g, b)
	}
	if r, g, b := rgbAt(img, 15, 30); r != 255 || g != 255 || b != 255 {
		t.Errorf("box interior at (15,30) = (%d,%d,%d), want untouched paper", r, g, b)
	}
}

func TestAnnotate_Corners(t *testing.T) {
	page := NewBlank(100, 100, 0)
	q := geometry.Quad{geometry.Pt(10, 10), geometry.Pt(90, 10), geometry.Pt(90, 90), geometry.Pt(10, 90)}

	result, err := Annotate(page, AnnotateOptions{Corners: &q, CornerColor: "invalid"})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	img := decodeAnnotated(t, result)
	if _, g, _ := rgbAt(img, 50, 10); g != 200 {
		t.Errorf("top edge should use the default corner color, got green=%d", g)
	}
	if r, g, b := rgbAt(img, 50, 50); r != 0 || g != 0 || b != 0 {
		t.Error("page interior should be untouched")
	}
}

func TestAnnotate_NumberedWords(t *testing.T) {
	page := NewBlank(60, 40, 255)
	words := [][]geometry.Rect{{{X: 10, Y: 20, W: 10, H: 10}}}

	result, err := Annotate(page, AnnotateOptions{Words: words, Numbered: true})
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	img := decodeAnnotated(t, result)
	dark := false
	for y := 11; y < 19; y++ {
		for x := 9; x < 14; x++ {
			if r, _, _ := rgbAt(img, x, y); r < 100 {
				dark = true
			}
		}
	}
	if !dark {
		t.Error("word number label should be drawn above the first glyph")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		wantR   uint8
		wantG   uint8
		wantB   uint8
		wantA   uint8
		wantErr bool
	}{
		{"#FF0000", 255, 0, 0, 255, false},
		{"#00FF00", 0, 255, 0, 255, false},
		{"FF0000", 255, 0, 0, 255, false},    // without #
		{"#FF000080", 255, 0, 0, 128, false}, // with alpha
		{"", 0, 0, 0, 0, true},               // empty
		{"#FFF", 0, 0, 0, 0, true},           // invalid length
		{"#GGGGGG", 0, 0, 0, 0, true},        // invalid hex
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := parseHexColor(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.R != tt.wantR || c.G != tt.wantG || c.B != tt.wantB || c.A != tt.wantA {
				t.Errorf("got (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					c.R, c.G, c.B, c.A, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}

	// None of these may panic.
	drawLabel(img, 15, 15, "100", fg, bg)
	drawLabel(img, -5, -5, "7", fg, bg)
	drawLabel(img, 10, 10, "", fg, bg)
}

func TestDrawLine_Diagonal(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{255, 0, 0, 255}
	drawLine(img, image.Pt(9, 9), image.Pt(0, 0), red)
	for i := 0; i < 10; i++ {
		if img.RGBAAt(i, i) != red {
			t.Errorf("pixel (%d,%d) not drawn", i, i)
		}
	}
	drawLine(img, image.Pt(-5, 2), image.Pt(20, 2), red)
}
