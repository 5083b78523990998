package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

// HoughOptions controls line segment extraction from an edge map.
//
// The accumulator resolution is fixed at 1 pixel in rho and 1 degree in theta.
type HoughOptions struct {
	// Threshold is the minimum number of edge pixels voting for a line.
	Threshold int

	// MinLength is the shortest segment, in pixels, that is reported.
	MinLength float64

	// MaxGap is the largest run of missing edge pixels bridged inside one segment.
	MaxGap float64

	// MaxLines caps the number of segments returned; 0 means no cap.
	MaxLines int
}

// houghPeak is a local maximum of the accumulator.
type houghPeak struct {
	rho   int
	theta int
	votes int
}

// DetectSegments finds straight line segments in a binary edge map.
//
// Edge pixels are the non-zero pixels of edges. The function runs a Hough
// transform, keeps accumulator peaks with at least opts.Threshold votes, and
// walks each peak's line to split the supporting pixels into segments wherever
// more than opts.MaxGap pixels are missing. Segments shorter than
// opts.MinLength are dropped. Pixels claimed by one segment are not reused by
// later, weaker peaks, so a thick edge yields one segment.
//
// Segment endpoints lie on the fitted line and are rounded to whole pixels:
// a horizontal line has equal y coordinates and a vertical line equal x
// coordinates. Results are ordered by vote count, strongest first.
func DetectSegments(edges *image.Gray, opts HoughOptions) []geometry.LineSegment {
	bounds := edges.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	points := make([]image.Point, 0)
	for y := 0; y < height; y++ {
		row := edges.Pix[edges.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			if row[x] != 0 {
				points = append(points, image.Pt(x, y))
			}
		}
	}
	if len(points) == 0 {
		return nil
	}

	// Hough transform parameters
	maxDist := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	numAngles := 180
	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for theta := 0; theta < numAngles; theta++ {
		angle := float64(theta) * math.Pi / 180.0
		cosT[theta] = math.Cos(angle)
		sinT[theta] = math.Sin(angle)
	}

	accumulator := make([][]int, maxDist*2+1)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	// Vote in Hough space
	for _, p := range points {
		for theta := 0; theta < numAngles; theta++ {
			rho := float64(p.X)*cosT[theta] + float64(p.Y)*sinT[theta]
			accumulator[int(math.Round(rho))+maxDist][theta]++
		}
	}

	peaks := findPeaks(accumulator, maxDist, opts.Threshold)

	used := make([]bool, width*height)
	segments := make([]geometry.LineSegment, 0)
	for _, peak := range peaks {
		if opts.MaxLines > 0 && len(segments) >= opts.MaxLines {
			break
		}

		cosA, sinA := cosT[peak.theta], sinT[peak.theta]
		rho := float64(peak.rho)

		// Supporting pixels, parameterized by their position along the line.
		type support struct {
			t   float64
			idx int
		}
		onLine := make([]support, 0)
		for _, p := range points {
			idx := p.Y*width + p.X
			if used[idx] {
				continue
			}
			dist := math.Abs(float64(p.X)*cosA + float64(p.Y)*sinA - rho)
			if dist < 1.5 {
				onLine = append(onLine, support{t: float64(p.Y)*cosA - float64(p.X)*sinA, idx: idx})
			}
		}
		if len(onLine) < 2 {
			continue
		}
		sort.Slice(onLine, func(i, j int) bool {
			if onLine[i].t != onLine[j].t {
				return onLine[i].t < onLine[j].t
			}
			return onLine[i].idx < onLine[j].idx
		})

		start := 0
		for i := 1; i <= len(onLine); i++ {
			if i < len(onLine) && onLine[i].t-onLine[i-1].t <= opts.MaxGap {
				continue
			}
			t0, t1 := onLine[start].t, onLine[i-1].t
			if t1-t0 >= opts.MinLength {
				segments = append(segments, geometry.LineSegment{
					P1: pointOnLine(rho, cosA, sinA, t0),
					P2: pointOnLine(rho, cosA, sinA, t1),
				})
				for _, s := range onLine[start:i] {
					used[s.idx] = true
				}
				if opts.MaxLines > 0 && len(segments) >= opts.MaxLines {
					break
				}
			}
			start = i
		}
	}

	return segments
}

// pointOnLine returns the pixel at position t along the line x*cos + y*sin = rho.
func pointOnLine(rho, cosA, sinA, t float64) geometry.Point {
	x := rho*cosA - t*sinA
	y := rho*sinA + t*cosA
	return geometry.Point{X: math.Round(x), Y: math.Round(y)}
}

// findPeaks returns accumulator cells that reach threshold and dominate a
// 5x5 neighborhood, strongest first. Among equal neighbors the cell with the
// smaller (rho, theta) index wins, so a plateau produces a single peak.
func findPeaks(accumulator [][]int, maxDist, threshold int) []houghPeak {
	if threshold < 1 {
		threshold = 1
	}
	numAngles := len(accumulator[0])
	peaks := make([]houghPeak, 0)

	for rhoIdx := range accumulator {
		for theta := 0; theta < numAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < threshold {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr, nt := rhoIdx+dr, theta+dt
					if nr < 0 || nr >= len(accumulator) || nt < 0 || nt >= numAngles {
						continue
					}
					other := accumulator[nr][nt]
					earlier := dr < 0 || (dr == 0 && dt < 0)
					if other > votes || (other == votes && earlier) {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, houghPeak{rho: rhoIdx - maxDist, theta: theta, votes: votes})
			}
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})
	return peaks
}
