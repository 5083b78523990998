package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Blur applies a Gaussian blur and returns a grayscale result.
//
// A sigma of 0 or less returns an unmodified copy.
func Blur(gray *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return ToGray(gray)
	}
	return grayFromRGBA(imaging.Blur(gray, sigma))
}

// OtsuLevel returns the threshold that best separates the histogram of gray
// into two classes by maximizing their between-class variance.
//
// Pixels at or below the returned level belong to the dark class. A uniform
// image yields its single gray value.
func OtsuLevel(gray *image.Gray) uint8 {
	level, _ := otsu(gray)
	return level
}

// otsu reports the Otsu level and whether the image has more than one gray value.
func otsu(gray *image.Gray) (uint8, bool) {
	var hist [256]int
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		start := gray.PixOffset(bounds.Min.X, y)
		for _, v := range gray.Pix[start : start+bounds.Dx()] {
			hist[v]++
		}
	}

	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 255, false
	}

	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i * n)
	}

	var (
		weightDark int
		sumDark    float64
		best       float64 = -1
		level      int
	)
	for t := 0; t < 256; t++ {
		weightDark += hist[t]
		if weightDark == 0 {
			continue
		}
		weightLight := total - weightDark
		if weightLight == 0 {
			if best < 0 {
				level = t
			}
			break
		}
		sumDark += float64(t * hist[t])

		meanDark := sumDark / float64(weightDark)
		meanLight := (sumAll - sumDark) / float64(weightLight)
		between := float64(weightDark) * float64(weightLight) * (meanDark - meanLight) * (meanDark - meanLight)
		if between > best {
			best = between
			level = t
		}
	}
	return uint8(level), best >= 0
}

// Binarize thresholds gray with Otsu's level. Ink becomes 0 and paper 255.
// A page with a single gray value has no ink and comes back all white.
func Binarize(gray *image.Gray) *image.Gray {
	level, ok := otsu(gray)
	if !ok {
		return NewBlank(gray.Bounds().Dx(), gray.Bounds().Dy(), 255)
	}
	return ToGray(segment.Threshold(gray, level+1))
}

// Erode applies morphological erosion with the given radius.
//
// Erosion takes the local minimum, so on a white page it grows dark strokes and
// closes small breaks inside glyphs. A radius of 0 or less returns a copy.
func Erode(bin *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return ToGray(bin)
	}
	return grayFromRGBA(effect.Erode(bin, radius))
}

// Median replaces every pixel with the median of its neighborhood, removing
// isolated specks while keeping stroke edges. A radius of 0 or less returns a copy.
func Median(gray *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return ToGray(gray)
	}
	return grayFromRGBA(effect.Median(gray, radius))
}

// grayFromRGBA takes the red channel of an image whose pixels are known to be gray.
func grayFromRGBA(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	var pix []uint8
	var stride int
	switch src := img.(type) {
	case *image.NRGBA:
		pix, stride = src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y):], src.Stride
	case *image.RGBA:
		pix, stride = src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y):], src.Stride
	default:
		draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
		return gray
	}

	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			gray.Pix[y*gray.Stride+x] = pix[y*stride+x*4]
		}
	}
	return gray
}
