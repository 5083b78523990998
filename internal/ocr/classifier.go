package ocr

import (
	"errors"
	"image"
)

// ErrNoCharacter is returned when a classifier finds nothing in a glyph.
var ErrNoCharacter = errors.New("no character recognized")

// Classifier labels one normalized glyph image.
type Classifier interface {
	Classify(glyph image.Image) (rune, error)
}

// Denoiser cleans a normalized glyph before classification. The result has
// the same size as the input.
type Denoiser interface {
	Denoise(glyph *image.Gray) *image.Gray
}

// Spellchecker returns the most likely spelling of word, or word itself.
type Spellchecker interface {
	Correct(word string) string
}
