// Package geometry provides the small amount of plane geometry the page pipeline needs.
//
// It covers three groups of primitives:
//
//   - Lines: slope-intercept equations built from two points, with a +Inf slope
//     sentinel for vertical lines, and bounded intersection of two equations.
//   - Points and quadrilaterals: close-point filtering, canonical corner ordering
//     (top-left, top-right, bottom-right, bottom-left) and shoelace area.
//   - Rectangles: axis-aligned glyph boxes and the gap/enclosure relations used
//     by the segmenters.
//
// # Coordinate System
//
// All coordinates use the image convention: origin at the top-left corner,
// X increasing rightward and Y increasing downward. A Rect is stored as its
// top-left corner plus width and height.
//
// # Degenerate Input
//
// Nothing in this package returns an error for degenerate geometry. Parallel or
// nearly parallel lines simply have no usable intersection, and callers treat
// that as "no evidence" rather than as a failure.
package geometry
