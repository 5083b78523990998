// Package detection finds the structures the page pipeline is built on:
// straight lines, ink blobs and the page boundary itself.
//
// # Line Segments
//
// DetectSegments runs a Hough transform over a binary edge map and splits
// each accumulator peak into segments along the line, bridging small gaps.
// Endpoints are snapped onto the fitted line, so axis-aligned edges produce
// exactly horizontal or exactly vertical segments.
//
// # Connected Components
//
// FindComponents labels 8-connected ink blobs with an iterative flood fill and
// reports their bounding boxes. The contour-based glyph segmenter uses it.
//
// # Page Boundary
//
// DetectPageBoundary combines the two previous steps with the geometry
// package: blur, Canny edges, Hough segments, pairwise intersection of the
// longest lines, close-point merging and canonical corner ordering. It only
// reports a boundary when exactly four corners survive; anything else is an
// ordinary "not found" result, never an error.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Performance Considerations
//
// The Hough accumulator costs O(edge pixels × 180) to fill and each peak scans
// the edge pixel list once, so cost grows with photo size and edge density.
package detection
