package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestEdgeDetect(t *testing.T) {
	img := createEdgeTestImage(100, 100)

	result, err := EdgeDetect(img, 50, 150)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	edgeImg, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if edgeImg.Bounds().Dx() != 100 || edgeImg.Bounds().Dy() != 100 {
		t.Errorf("decoded image dimensions: got %dx%d, want 100x100",
			edgeImg.Bounds().Dx(), edgeImg.Bounds().Dy())
	}
}

func TestEdgeDetect_SmallImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))

	result, err := EdgeDetect(img, 50, 150)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}
	if result.Width != 5 || result.Height != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x5", result.Width, result.Height)
	}
}

func TestCanny_UniformImage(t *testing.T) {
	edges := Canny(NewBlank(50, 50, 128), 50, 150)
	for i, v := range edges.Pix {
		if v != 0 {
			t.Fatalf("uniform image produced an edge at index %d", i)
		}
	}
}

func TestCanny_StrongEdge(t *testing.T) {
	// Black left half, white right half, smoothed as the detector does.
	gray := Blur(newGrayPage(100, 100, image.Rect(0, 0, 50, 100)), DefaultEdgeBlurSigma)
	edges := Canny(gray, 50, 250)

	for _, y := range []int{20, 50, 80} {
		found := false
		for x := 47; x <= 52; x++ {
			if edges.GrayAt(x, y).Y == 255 {
				found = true
			}
		}
		if !found {
			t.Errorf("vertical edge not detected on row %d", y)
		}
		if edges.GrayAt(25, y).Y != 0 || edges.GrayAt(75, y).Y != 0 {
			t.Errorf("flat regions on row %d should have no edges", y)
		}
	}
}

func TestBlur(t *testing.T) {
	spot := NewBlank(11, 11, 0)
	spot.SetGray(5, 5, color.Gray{Y: 255})

	blurred := Blur(spot, 1)
	if blurred.GrayAt(5, 5).Y >= 255 {
		t.Error("bright spot should be reduced after blur")
	}
	if blurred.GrayAt(4, 5).Y == 0 || blurred.GrayAt(5, 6).Y == 0 {
		t.Error("neighbors should receive some brightness from blur")
	}

	same := Blur(spot, 0)
	if same.GrayAt(5, 5).Y != 255 || same == spot {
		t.Error("sigma 0 should return an unmodified copy")
	}

	uniform := Blur(NewBlank(10, 10, 200), 1.4)
	for _, v := range uniform.Pix {
		if v < 199 || v > 201 {
			t.Fatalf("uniform image changed under blur: %d", v)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

// createEdgeTestImage creates an image with a black rectangle on white background.
func createEdgeTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}
