package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

// ErrDegenerateQuad is returned when four corners do not define a projective transform,
// for example when three of them are collinear.
var ErrDegenerateQuad = errors.New("corners do not define a perspective transform")

// Homography is a 3x3 projective transform stored row-major with H[8] == 1.
type Homography [9]float64

// Apply maps (x, y) through the transform.
func (h Homography) Apply(x, y float64) (float64, float64) {
	w := h[6]*x + h[7]*y + h[8]
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w
}

// SolveHomography returns the transform that maps each from[i] onto to[i].
//
// The eight unknowns come from the standard direct linear system: every
// correspondence (x, y) -> (u, v) contributes
//
//	u = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
//	v = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
//
// rearranged to be linear in h0..h7.
func SolveHomography(from, to [4]geometry.Point) (Homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := from[i].X, from[i].Y
		u, v := to[i].X, to[i].Y
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		// Pixel-scale coordinates make the system poorly conditioned; only an
		// exactly singular system is fatal.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Homography{}, fmt.Errorf("%w: %v", ErrDegenerateQuad, err)
		}
	}

	var out Homography
	for i := 0; i < 8; i++ {
		v := h.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Homography{}, ErrDegenerateQuad
		}
		out[i] = v
	}
	out[8] = 1
	return out, nil
}

// WarpPerspective resamples the quadrilateral q of src into an upright
// width x height image.
//
// The corners of q land on (0,0), (width-1,0), (width-1,height-1) and
// (0,height-1). Each destination pixel is mapped back into src and sampled
// bilinearly; samples falling outside src repeat the nearest border pixel.
func WarpPerspective(src *image.Gray, q geometry.Quad, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output size %dx%d", ErrDegenerateQuad, width, height)
	}

	dst := [4]geometry.Point{
		{X: 0, Y: 0},
		{X: float64(width - 1), Y: 0},
		{X: float64(width - 1), Y: float64(height - 1)},
		{X: 0, Y: float64(height - 1)},
	}
	// Solve destination -> source so every output pixel gets exactly one sample.
	inverse, err := SolveHomography(dst, q)
	if err != nil {
		return nil, err
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy := inverse.Apply(float64(x), float64(y))
			out.Pix[y*out.Stride+x] = sampleBilinear(src, sx, sy)
		}
	}
	return out, nil
}

// sampleBilinear interpolates src at a fractional position relative to its bounds.
func sampleBilinear(src *image.Gray, x, y float64) uint8 {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 || math.IsNaN(x) || math.IsNaN(y) {
		return 255
	}

	x = math.Max(0, math.Min(x, float64(w-1)))
	y = math.Max(0, math.Min(y, float64(h-1)))
	x0, y0 := int(x), int(y)
	x1, y1 := clamp(x0+1, 0, w-1), clamp(y0+1, 0, h-1)
	fx, fy := x-float64(x0), y-float64(y0)

	at := func(px, py int) float64 {
		return float64(src.Pix[src.PixOffset(bounds.Min.X+px, bounds.Min.Y+py)])
	}
	top := at(x0, y0)*(1-fx) + at(x1, y0)*fx
	bottom := at(x0, y1)*(1-fx) + at(x1, y1)*fx
	return uint8(clamp(int(math.Round(top*(1-fy)+bottom*fy)), 0, 255))
}
