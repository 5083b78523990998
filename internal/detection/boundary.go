package detection

import (
	"image"
	"sort"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// BoundaryOptions tunes page boundary detection. DefaultBoundaryOptions
// returns the values the detector was calibrated with.
type BoundaryOptions struct {
	// BlurSigma is the Gaussian sigma applied before edge detection.
	BlurSigma float64 `yaml:"blur_sigma" json:"blur_sigma"`

	// CannyLow and CannyHigh are the hysteresis thresholds (0-255).
	CannyLow  int `yaml:"canny_low" json:"canny_low"`
	CannyHigh int `yaml:"canny_high" json:"canny_high"`

	// HoughThreshold is the minimum vote count for a candidate line.
	HoughThreshold int `yaml:"hough_threshold" json:"hough_threshold"`

	// LineRatio sets both the minimum segment length and the largest bridged
	// gap as a fraction of the image height.
	LineRatio float64 `yaml:"line_ratio" json:"line_ratio"`

	// MaxLines is how many of the longest segments are intersected.
	MaxLines int `yaml:"max_lines" json:"max_lines"`

	// CornerDistanceRatio merges intersections closer than this fraction of
	// the image width into one corner.
	CornerDistanceRatio float64 `yaml:"corner_distance_ratio" json:"corner_distance_ratio"`
}

// DefaultBoundaryOptions returns the calibrated detector settings.
func DefaultBoundaryOptions() BoundaryOptions {
	return BoundaryOptions{
		BlurSigma:           imaging.DefaultEdgeBlurSigma,
		CannyLow:            50,
		CannyHigh:           250,
		HoughThreshold:      150,
		LineRatio:           0.1,
		MaxLines:            10,
		CornerDistanceRatio: 0.1,
	}
}

// BoundaryReport records what each stage of boundary detection produced.
type BoundaryReport struct {
	// Segments are the longest detected segments, longest first.
	Segments []geometry.LineSegment `json:"segments"`

	// Intersections are the distinct usable pairwise line intersections,
	// sorted by y then x.
	Intersections []geometry.Point `json:"intersections"`

	// Corners are the intersections left after merging close points.
	Corners []geometry.Point `json:"corners"`

	// Quad is valid only when Found is true.
	Quad  geometry.Quad `json:"quad"`
	Found bool          `json:"found"`
}

// DetectPageBoundary locates the four corners of a document in a photo.
//
// It returns false, never an error, when no unambiguous quadrilateral is
// found: no lines, or anything other than exactly four corner candidates.
func DetectPageBoundary(gray *image.Gray, opts BoundaryOptions) (geometry.Quad, bool) {
	report := InspectPageBoundary(gray, opts)
	return report.Quad, report.Found
}

// InspectPageBoundary runs boundary detection and keeps the intermediate results.
//
// # Algorithm
//
//  1. Blur, Canny edges, Hough line segments (min length and max gap are
//     LineRatio of the image height).
//  2. Keep the MaxLines longest segments.
//  3. Intersect every unordered pair of their line equations inside the image,
//     rejecting parallel and shallow crossings, and drop exact duplicates.
//  4. Merge points closer than CornerDistanceRatio of the width; the first
//     point in (y, x) order wins.
//  5. Exactly four points must survive; they are then put in canonical order.
func InspectPageBoundary(gray *image.Gray, opts BoundaryOptions) BoundaryReport {
	var report BoundaryReport

	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return report
	}

	edges := imaging.Canny(imaging.Blur(gray, opts.BlurSigma), opts.CannyLow, opts.CannyHigh)
	lineScale := opts.LineRatio * float64(height)
	segments := DetectSegments(edges, HoughOptions{
		Threshold: opts.HoughThreshold,
		MinLength: float64(int(lineScale)),
		MaxGap:    float64(int(lineScale)),
	})

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Length() > segments[j].Length()
	})
	if opts.MaxLines > 0 && len(segments) > opts.MaxLines {
		segments = segments[:opts.MaxLines]
	}
	report.Segments = segments

	equations := make([]geometry.LineEquation, len(segments))
	for i, s := range segments {
		equations[i] = s.Equation()
	}

	frame := image.Rect(0, 0, width, height)
	seen := make(map[geometry.Point]bool)
	points := make([]geometry.Point, 0)
	for i := 0; i < len(equations); i++ {
		for j := i + 1; j < len(equations); j++ {
			p, ok := geometry.Intersect(equations[i], equations[j], frame)
			if !ok || seen[p] {
				continue
			}
			seen[p] = true
			points = append(points, p)
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
	report.Intersections = points

	report.Corners = geometry.FilterClosePoints(points, float64(int(opts.CornerDistanceRatio*float64(width))))
	if len(report.Corners) != 4 {
		return report
	}

	quad, err := geometry.OrderPoints(report.Corners)
	if err != nil {
		return report
	}
	report.Quad = quad
	report.Found = true
	return report
}
