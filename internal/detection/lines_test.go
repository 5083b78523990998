package detection

import (
	"image"
	"image/color"
	"testing"
)

// edgeMap returns a black edge map of the given size.
func edgeMap(width, height int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, width, height))
}

// drawHorizontal marks edge pixels on row y from x0 to x1 inclusive.
func drawHorizontal(img *image.Gray, y, x0, x1 int) {
	for x := x0; x <= x1; x++ {
		img.SetGray(x, y, color.Gray{Y: 255})
	}
}

// drawVertical marks edge pixels on column x from y0 to y1 inclusive.
func drawVertical(img *image.Gray, x, y0, y1 int) {
	for y := y0; y <= y1; y++ {
		img.SetGray(x, y, color.Gray{Y: 255})
	}
}

func TestDetectSegments_Horizontal(t *testing.T) {
	edges := edgeMap(200, 100)
	drawHorizontal(edges, 40, 10, 189)

	segs := DetectSegments(edges, HoughOptions{Threshold: 50, MinLength: 20, MaxGap: 5})
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1: %v", len(segs), segs)
	}
	s := segs[0]
	if s.P1.Y != 40 || s.P2.Y != 40 {
		t.Errorf("horizontal segment should have y=40 at both ends, got %v", s)
	}
	if got := s.Length(); got < 175 || got > 180 {
		t.Errorf("length = %.1f, want ~179", got)
	}
	if eq := s.Equation(); eq.M != 0 {
		t.Errorf("slope = %v, want exactly 0", eq.M)
	}
}

func TestDetectSegments_VerticalIsExact(t *testing.T) {
	edges := edgeMap(100, 200)
	drawVertical(edges, 30, 5, 180)

	segs := DetectSegments(edges, HoughOptions{Threshold: 50, MinLength: 20, MaxGap: 5})
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1: %v", len(segs), segs)
	}
	if !segs[0].Equation().Vertical() || segs[0].P1.X != 30 {
		t.Errorf("vertical segment should use the vertical sentinel at x=30, got %v", segs[0])
	}
}

func TestDetectSegments_ThickEdgeGivesOneSegment(t *testing.T) {
	edges := edgeMap(200, 100)
	drawHorizontal(edges, 40, 10, 189)
	drawHorizontal(edges, 41, 10, 189)

	segs := DetectSegments(edges, HoughOptions{Threshold: 50, MinLength: 20, MaxGap: 5})
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1: %v", len(segs), segs)
	}
}

func TestDetectSegments_Gaps(t *testing.T) {
	tests := []struct {
		name   string
		maxGap float64
		want   int
	}{
		{"gap bridged", 40, 1},
		{"gap splits line", 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := edgeMap(300, 50)
			drawHorizontal(edges, 25, 0, 99)
			drawHorizontal(edges, 25, 130, 299)

			segs := DetectSegments(edges, HoughOptions{Threshold: 100, MinLength: 50, MaxGap: tt.maxGap})
			if len(segs) != tt.want {
				t.Errorf("got %d segments, want %d: %v", len(segs), tt.want, segs)
			}
		})
	}
}

func TestDetectSegments_ShortAndWeakLinesDropped(t *testing.T) {
	edges := edgeMap(200, 200)
	drawVertical(edges, 150, 10, 190) // 181 px: kept
	drawHorizontal(edges, 20, 10, 40) // 31 votes: below Threshold
	for x0 := 0; x0 < 150; x0 += 40 {
		drawHorizontal(edges, 100, x0, x0+29) // dashes: enough votes, each run below MinLength
	}

	segs := DetectSegments(edges, HoughOptions{Threshold: 80, MinLength: 40, MaxGap: 3})
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1: %v", len(segs), segs)
	}
	if segs[0].P1.X != 150 {
		t.Errorf("kept the wrong segment: %v", segs[0])
	}
}

func TestDetectSegments_MaxLines(t *testing.T) {
	edges := edgeMap(200, 200)
	for _, y := range []int{20, 60, 100, 140} {
		drawHorizontal(edges, y, 0, 199)
	}

	segs := DetectSegments(edges, HoughOptions{Threshold: 100, MinLength: 50, MaxGap: 3, MaxLines: 2})
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
}

func TestDetectSegments_Empty(t *testing.T) {
	if segs := DetectSegments(edgeMap(50, 50), HoughOptions{Threshold: 1}); len(segs) != 0 {
		t.Errorf("empty edge map produced %d segments", len(segs))
	}
}
