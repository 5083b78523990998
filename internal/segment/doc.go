// Package segment cuts a binarized page into glyph rectangles in reading
// order and groups them into words.
//
// # Strategies
//
// Two GlyphSegmenter implementations share one contract:
//   - RowScan finds bands of ink rows, then runs of ink columns inside each
//     band, and tightens every run to its ink. It is the default.
//   - Contour labels 8-connected ink blobs, rejects size outliers, groups the
//     survivors into lines and drops boxes nested in their neighbor.
//
// Both blur the page first so that isolated speckle falls below the ink level.
//
// # Tokens and Words
//
// A segmenter emits a Token stream: glyph rects with Space markers where a
// horizontal gap is wider than the typical glyph width allows, or where the
// next glyph jumps far back to the left (a new line). AssembleWords splits the
// stream on spaces; Words.Tokens rebuilds it.
//
// A blank page yields empty results, never an error.
package segment
