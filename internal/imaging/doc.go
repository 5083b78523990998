// Package imaging provides the pixel-level operations of the page pipeline.
//
// Every stage after decoding works on single-channel *image.Gray values whose
// bounds start at (0,0). The package covers:
//   - decoding and caching pages, with color-to-gray conversion (CIE L*)
//   - Gaussian blur and Canny edge detection for boundary finding
//   - Otsu binarization, morphological erosion and median denoising
//   - perspective warping through a solved homography
//   - glyph cropping and normalization to the classifier's fixed input size
//   - debug overlays of detected corners and glyph boxes
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Ink Convention
//
// Binarized pages use 0 for ink and 255 for paper. Functions never modify
// their input image; each returns a newly allocated result.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. Consider using Evict() or Clear() to manage memory for
// long-running processes.
package imaging
