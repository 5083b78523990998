// Package ocr turns segmented glyphs into text.
//
// The package defines the three collaborators the recognizer depends on and
// ships one implementation of each:
//   - Classifier: Engine, a Tesseract client in single-character mode
//   - Denoiser: MedianDenoiser, a median filter over the normalized glyph
//   - Spellchecker: Dictionary, a fuzzy word model trained from a word list
//
// Recognizer crops every glyph from the page, normalizes it to the
// classifier's fixed input size, classifies it and applies the text
// heuristics: letter/digit disambiguation inside words, a table of common
// misreads and dictionary correction.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Thread Safety
//
// An Engine serializes its calls with a mutex because the underlying
// Tesseract handle is not safe for concurrent use. Create one per process and
// share it. Dictionary and MedianDenoiser are safe for concurrent use.
//
// # Error Handling
//
// A glyph the classifier cannot read becomes '?' in the text and is reported
// in Recognition.Failures; recognition as a whole only fails on cancellation.
package ocr
