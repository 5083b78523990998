package detection

import (
	"image"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

// Component is one 8-connected blob of ink pixels.
type Component struct {
	// Bounds is the tight bounding box of the blob.
	Bounds geometry.Rect `json:"bounds"`

	// Pixels is the number of ink pixels in the blob.
	Pixels int `json:"pixels"`
}

// FindComponents labels the ink of a page and returns one Component per
// 8-connected blob, in the order their top-left-most pixel is met by a
// row-major scan.
//
// A pixel is ink when its value is below inkLevel. Since only bounding boxes
// are reported, a blob nested inside another blob's hole (the counter of an
// "o" that contains a speck) appears as its own component; the segmenter
// removes such enclosed boxes later.
func FindComponents(gray *image.Gray, inkLevel uint8) []Component {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ink := make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[gray.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			ink[y*width+x] = row[x] < inkLevel
		}
	}

	visited := make([]bool, width*height)
	components := make([]Component, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ink[y*width+x] && !visited[y*width+x] {
				components = append(components, floodFill(ink, visited, x, y, width, height))
			}
		}
	}

	return components
}

// floodFill performs iterative flood-fill from a starting point.
//
// Uses a stack-based approach (not recursive) to avoid stack overflow
// on large blobs. Marks visited pixels and grows the bounding box as it goes.
// Uses 8-connectivity (includes diagonal neighbors).
func floodFill(ink, visited []bool, startX, startY, width, height int) Component {
	minX, minY, maxX, maxY := startX, startY, startX, startY
	pixels := 0
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		idx := p.Y*width + p.X
		if visited[idx] || !ink[idx] {
			continue
		}

		visited[idx] = true
		pixels++
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return Component{
		Bounds: geometry.Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1},
		Pixels: pixels,
	}
}
