// Package rectify turns a page photo into the upright, binarized page the
// glyph segmenters expect.
//
// Preprocess either detects the page boundary or takes caller-supplied
// corners, warps the quadrilateral to a rectangle, binarizes it with Otsu's
// threshold and optionally erodes it. When no plausible boundary exists it
// falls back to binarizing the whole frame and records why in the Result.
// A missing or implausible boundary is therefore never an error.
package rectify
