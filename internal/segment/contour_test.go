package segment

import (
	"image"
	"reflect"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

func TestContour_AreaOutliersDropped(t *testing.T) {
	ink := []image.Rectangle{
		image.Rect(200, 5, 260, 45), // merged blob, 6x the typical area
		image.Rect(280, 20, 282, 22),
	}
	for i := 0; i < 7; i++ {
		x := 10 + 25*i
		ink = append(ink, image.Rect(x, 10, x+20, 30))
	}
	page := inkPage(300, 60, ink...)

	rects := NewContour(DefaultOptions()).Rects(page)
	if len(rects) != 7 {
		t.Fatalf("got %d rects, want the 7 squares: %v", len(rects), rects)
	}
	for i, r := range rects {
		if want := rect(10+25*i, 10, 20, 20); r != want {
			t.Errorf("rect %d = %+v, want %+v", i, r, want)
		}
	}

	words := AssembleWords(NewContour(DefaultOptions()).Segment(page))
	if len(words) != 1 {
		t.Errorf("got %d words, want one word of tight glyphs", len(words))
	}
}

func TestSortIntoLines(t *testing.T) {
	rects := []geometry.Rect{
		rect(50, 42, 10, 20), // second line, slightly lower baseline
		rect(0, 0, 10, 20),
		rect(30, 2, 10, 20),
		rect(10, 40, 10, 20),
		rect(15, 1, 10, 20),
	}
	got := SortIntoLines(rects, 10)
	want := []geometry.Rect{
		rect(0, 0, 10, 20), rect(15, 1, 10, 20), rect(30, 2, 10, 20),
		rect(10, 40, 10, 20), rect(50, 42, 10, 20),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortIntoLines = %v, want %v", got, want)
	}
	if rects[0] != rect(50, 42, 10, 20) {
		t.Error("SortIntoLines modified its input")
	}
	if got := SortIntoLines(nil, 10); len(got) != 0 {
		t.Errorf("SortIntoLines(nil) = %v, want empty", got)
	}
}

func TestRemoveEnclosingRects(t *testing.T) {
	outer := rect(10, 10, 30, 30)
	hole := rect(18, 18, 10, 10)
	next := rect(50, 10, 20, 30)

	tests := []struct {
		name  string
		rects []geometry.Rect
		want  []geometry.Rect
	}{
		{"empty", nil, []geometry.Rect{}},
		{"no nesting", []geometry.Rect{outer, next}, []geometry.Rect{outer, next}},
		{"inner after outer", []geometry.Rect{outer, hole, next}, []geometry.Rect{outer, next}},
		{"inner before outer", []geometry.Rect{hole, outer, next}, []geometry.Rect{outer, next}},
		{"nested chain", []geometry.Rect{rect(0, 0, 50, 50), outer, hole}, []geometry.Rect{rect(0, 0, 50, 50)}},
		{"shared right edge", []geometry.Rect{outer, rect(20, 20, 20, 10)}, []geometry.Rect{outer, rect(20, 20, 20, 10)}},
		{"starts left of outer", []geometry.Rect{outer, rect(5, 15, 10, 10)}, []geometry.Rect{outer, rect(5, 15, 10, 10)}},
		{"duplicate boxes", []geometry.Rect{next, next}, []geometry.Rect{next, next}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := RemoveEnclosingRects(tt.rects)
			if !reflect.DeepEqual(once, tt.want) {
				t.Errorf("RemoveEnclosingRects = %v, want %v", once, tt.want)
			}
			twice := RemoveEnclosingRects(once)
			if !reflect.DeepEqual(twice, once) {
				t.Errorf("second pass changed the result: %v -> %v", once, twice)
			}
		})
	}
}
