package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

// whitePage returns a white page with black rectangles drawn on it.
func whitePage(width, height int, ink ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, r := range ink {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func TestFindComponents(t *testing.T) {
	page := whitePage(100, 40,
		image.Rect(10, 10, 30, 30),
		image.Rect(60, 10, 80, 30),
		image.Rect(45, 35, 47, 37),
	)

	got := FindComponents(page, 128)
	want := []Component{
		{Bounds: geometry.Rect{X: 10, Y: 10, W: 20, H: 20}, Pixels: 400},
		{Bounds: geometry.Rect{X: 60, Y: 10, W: 20, H: 20}, Pixels: 400},
		{Bounds: geometry.Rect{X: 45, Y: 35, W: 2, H: 2}, Pixels: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d components, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFindComponents_DiagonalConnectivity(t *testing.T) {
	page := whitePage(10, 10)
	for i := 0; i < 5; i++ {
		page.SetGray(2+i, 2+i, color.Gray{Y: 0})
	}

	got := FindComponents(page, 128)
	if len(got) != 1 {
		t.Fatalf("diagonal stroke split into %d components", len(got))
	}
	if got[0].Bounds != (geometry.Rect{X: 2, Y: 2, W: 5, H: 5}) || got[0].Pixels != 5 {
		t.Errorf("component = %+v", got[0])
	}
}

func TestFindComponents_RingAndHole(t *testing.T) {
	// An "o"-like ring with a speck in its counter gives two components,
	// the speck enclosed by the ring's box.
	page := whitePage(30, 30, image.Rect(5, 5, 25, 25))
	for y := 8; y < 22; y++ {
		for x := 8; x < 22; x++ {
			page.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	page.SetGray(15, 15, color.Gray{Y: 0})

	got := FindComponents(page, 128)
	if len(got) != 2 {
		t.Fatalf("got %d components, want ring and speck", len(got))
	}
	if !geometry.RectEnclosure(got[0].Bounds, got[1].Bounds) {
		t.Errorf("speck %v should be enclosed by ring %v", got[1].Bounds, got[0].Bounds)
	}
}

func TestFindComponents_InkLevel(t *testing.T) {
	page := whitePage(10, 10)
	page.SetGray(3, 3, color.Gray{Y: 127})
	page.SetGray(6, 6, color.Gray{Y: 128})

	got := FindComponents(page, 128)
	if len(got) != 1 || got[0].Bounds.X != 3 {
		t.Errorf("only pixels darker than the ink level count, got %v", got)
	}
	if len(FindComponents(whitePage(20, 20), 128)) != 0 {
		t.Error("blank page should have no components")
	}
}
