package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// drawText draws text on an image using basicfont
func drawText(img draw.Image, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// renderGlyph draws one character, scaled up, and normalizes it the way the
// recognizer does.
func renderGlyph(t *testing.T, ch string, scale int) *image.Gray {
	t.Helper()

	small := image.NewGray(image.Rect(0, 0, 7, 13))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	drawText(small, 0, 10, ch, color.Black)

	big := imaging.NewBlank(7*scale, 13*scale, 255)
	for y := 0; y < 13*scale; y++ {
		for x := 0; x < 7*scale; x++ {
			big.SetGray(x, y, small.GrayAt(x/scale, y/scale))
		}
	}
	return imaging.NormalizeGlyph(big, imaging.DefaultGlyphSize, imaging.DefaultGlyphBorder)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultEngineOptions())
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngine_Classify(t *testing.T) {
	e := newTestEngine(t)

	for _, ch := range []string{"x", "7", "k"} {
		got, err := e.Classify(renderGlyph(t, ch, 4))
		if err != nil {
			t.Logf("Classify(%q) failed: %v", ch, err)
			continue
		}
		if !strings.ContainsRune(DefaultWhitelist, got) {
			t.Errorf("Classify(%q) = %q, outside the whitelist", ch, got)
		}
		// Single glyphs from a bitmap font are not always read correctly.
		t.Logf("Classify(%q) = %q", ch, got)
	}
}

func TestEngine_BlankGlyph(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Classify(imaging.NewBlank(64, 64, 255))
	if err == nil {
		t.Log("Tesseract read a character on a blank glyph")
	}
}

func TestEngine_InvalidLanguage(t *testing.T) {
	newTestEngine(t)

	opts := DefaultEngineOptions()
	opts.Language = "invalid_language_code_xyz"
	if e, err := NewEngine(opts); err == nil {
		e.Close()
		t.Error("NewEngine should fail for missing language data")
	}
}

func TestProbe(t *testing.T) {
	info := Probe(DefaultEngineOptions())
	if info.Backend != "gosseract" || info.Language != "eng" {
		t.Errorf("info = %+v", info)
	}
	if info.Available && info.Version == "" {
		t.Error("available engine should report a version")
	}
	if !info.Available && info.Error == "" {
		t.Error("unavailable engine should report an error")
	}
}
