package rectify

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// Reasons recorded in Result.Fallback when the full frame is used.
const (
	FallbackDisabled   = "preprocessing disabled"
	FallbackNotFound   = "no page boundary found"
	FallbackTooSmall   = "page boundary below minimum area"
	FallbackDegenerate = "page boundary is degenerate"
)

// Options controls preprocessing.
type Options struct {
	// Enabled turns boundary detection and rectification on. When false only
	// the full frame is binarized.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// MinAreaRatio rejects detected boundaries whose area is below this
	// fraction of the image area.
	MinAreaRatio float64 `yaml:"min_area_ratio" json:"min_area_ratio"`

	// ErodeRadius is applied to the rectified binary page; 0 disables it.
	ErodeRadius float64 `yaml:"erode_radius" json:"erode_radius"`

	Boundary detection.BoundaryOptions `yaml:"boundary" json:"boundary"`
}

// DefaultOptions returns the calibrated preprocessing settings.
func DefaultOptions() Options {
	return Options{
		Enabled:      true,
		MinAreaRatio: 0.1,
		Boundary:     detection.DefaultBoundaryOptions(),
	}
}

// Result is a preprocessed page.
type Result struct {
	// Page is the binarized page: 0 is ink, 255 is paper.
	Page *image.Gray `json:"-"`

	// Corners are the boundary corners in the source photo, in canonical
	// order. Nil when no boundary was used.
	Corners *geometry.Quad `json:"corners,omitempty"`

	// Manual is true when Corners came from the caller.
	Manual bool `json:"manual"`

	// Rectified reports whether the page was perspective corrected.
	Rectified bool `json:"rectified"`

	// Fallback says why the full frame was used instead; empty when rectified.
	Fallback string `json:"fallback,omitempty"`

	// Boundary holds the detector's intermediate results when it ran.
	Boundary *detection.BoundaryReport `json:"boundary,omitempty"`
}

// Dimensions returns the output size for rectifying q: the longer of the
// two horizontal edges and the longer of the two vertical edges, each
// truncated to whole pixels.
func Dimensions(q geometry.Quad) (int, int) {
	width := max(int(geometry.Distance(q.BottomRight(), q.BottomLeft())),
		int(geometry.Distance(q.TopRight(), q.TopLeft())))
	height := max(int(geometry.Distance(q.TopRight(), q.BottomRight())),
		int(geometry.Distance(q.TopLeft(), q.BottomLeft())))
	return width, height
}

// Rectify warps the quadrilateral q of gray to an upright rectangle sized by Dimensions.
func Rectify(gray *image.Gray, q geometry.Quad) (*image.Gray, error) {
	width, height := Dimensions(q)
	warped, err := imaging.WarpPerspective(gray, q, width, height)
	if err != nil {
		return nil, fmt.Errorf("rectify: %w", err)
	}
	return warped, nil
}

// Preprocess produces the binary page for segmentation.
//
// When corners is non-empty it must hold exactly four points; they are put
// in canonical order and used as-is, skipping detection and the area check.
// Otherwise the boundary is detected when opts.Enabled is set. The only
// errors are malformed manual corners.
func Preprocess(gray *image.Gray, corners []geometry.Point, opts Options) (Result, error) {
	if len(corners) > 0 {
		q, err := geometry.OrderPoints(corners)
		if err != nil {
			return Result{}, fmt.Errorf("manual corners: %w", err)
		}
		warped, err := Rectify(gray, q)
		if err != nil {
			return Result{}, fmt.Errorf("manual corners: %w", err)
		}
		return Result{
			Page:      imaging.Erode(imaging.Binarize(warped), opts.ErodeRadius),
			Corners:   &q,
			Manual:    true,
			Rectified: true,
		}, nil
	}

	if !opts.Enabled {
		return lightPreprocess(gray, FallbackDisabled), nil
	}

	report := detection.InspectPageBoundary(gray, opts.Boundary)
	if !report.Found {
		res := lightPreprocess(gray, FallbackNotFound)
		res.Boundary = &report
		return res, nil
	}

	q := report.Quad
	if AreaRatio(q, gray.Bounds()) < opts.MinAreaRatio {
		res := lightPreprocess(gray, FallbackTooSmall)
		res.Corners, res.Boundary = &q, &report
		return res, nil
	}

	warped, err := Rectify(gray, q)
	if err != nil {
		res := lightPreprocess(gray, FallbackDegenerate)
		res.Corners, res.Boundary = &q, &report
		return res, nil
	}

	return Result{
		Page:      imaging.Erode(imaging.Binarize(warped), opts.ErodeRadius),
		Corners:   &q,
		Rectified: true,
		Boundary:  &report,
	}, nil
}

// lightPreprocess binarizes the full frame.
func lightPreprocess(gray *image.Gray, reason string) Result {
	return Result{Page: imaging.Binarize(gray), Fallback: reason}
}

// AreaRatio returns the fraction of the image covered by q.
func AreaRatio(q geometry.Quad, bounds image.Rectangle) float64 {
	area := float64(bounds.Dx() * bounds.Dy())
	if area == 0 {
		return math.NaN()
	}
	return geometry.QuadArea(q) / area
}
