package ocr

import (
	"context"
	"image"
	"strings"
	"unicode"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/segment"
)

// Unreadable stands in for a glyph the classifier failed on.
const Unreadable = '?'

// commonMistakes maps whole words the classifier tends to misread.
var commonMistakes = map[string]string{
	"ls":  "is",
	"lt":  "it",
	"l":   "i",
	"ln":  "in",
	"lts": "its",
	"ll":  "it",
}

// digitLookalikes replaces digits read inside a letter word.
var digitLookalikes = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'2': 'z',
	'5': 's',
}

// Recognizer reads the text of a segmented page.
type Recognizer struct {
	Classifier Classifier

	// Denoiser and Spellchecker are optional.
	Denoiser     Denoiser
	Spellchecker Spellchecker

	// GlyphSize and GlyphBorder describe the classifier input; zero values
	// use imaging.DefaultGlyphSize and imaging.DefaultGlyphBorder.
	GlyphSize   int
	GlyphBorder int
}

// GlyphFailure records a glyph the classifier could not read.
type GlyphFailure struct {
	Word  int    `json:"word"`
	Glyph int    `json:"glyph"`
	Error string `json:"error"`
}

// Recognition is the text read from a page.
type Recognition struct {
	// Text is the corrected text, words separated by single spaces.
	Text string `json:"text"`

	// Raw is the text before common-mistake and dictionary correction.
	Raw string `json:"raw"`

	Failures []GlyphFailure `json:"failures,omitempty"`
}

// Recognize classifies every glyph of words, cropped from page, and
// assembles the corrected text. It returns early only when ctx is done.
func (r *Recognizer) Recognize(ctx context.Context, page *image.Gray, words segment.Words) (Recognition, error) {
	size, border := r.GlyphSize, r.GlyphBorder
	if size <= 0 {
		size = imaging.DefaultGlyphSize
	}
	if border <= 0 {
		border = imaging.DefaultGlyphBorder
	}

	var rec Recognition
	raw := make([]string, 0, len(words))
	for wi, word := range words {
		if err := ctx.Err(); err != nil {
			return rec, err
		}

		chars := make([]rune, len(word))
		for gi, rect := range word {
			glyph := imaging.NormalizeGlyph(imaging.CropGlyph(page, rect), size, border)
			if r.Denoiser != nil {
				glyph = r.Denoiser.Denoise(glyph)
			}
			c, err := r.Classifier.Classify(glyph)
			if err != nil {
				rec.Failures = append(rec.Failures, GlyphFailure{Word: wi, Glyph: gi, Error: err.Error()})
				c = Unreadable
			}
			chars[gi] = c
		}
		raw = append(raw, string(DisambiguateWord(chars)))
	}

	rec.Raw = strings.Join(raw, " ")
	rec.Text = CorrectText(rec.Raw, r.Spellchecker)
	return rec, nil
}

// DisambiguateWord fixes digit/letter confusions. A word whose first
// character is a digit is a number and is left alone; in any other word the
// digits 0, 1, 2 and 5 after the first position become o, i, z and s.
func DisambiguateWord(chars []rune) []rune {
	out := make([]rune, len(chars))
	copy(out, chars)
	if len(out) == 0 || unicode.IsDigit(out[0]) {
		return out
	}
	for i := 1; i < len(out); i++ {
		if l, ok := digitLookalikes[out[i]]; ok {
			out[i] = l
		}
	}
	return out
}

// CorrectText replaces common misreads word by word, then runs the
// spellchecker over words that do not start with a digit. A nil
// spellchecker skips the dictionary step.
func CorrectText(text string, speller Spellchecker) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		if fixed, ok := commonMistakes[w]; ok {
			w = fixed
		}
		if speller != nil && w != "" && !startsWithDigit(w) {
			w = speller.Correct(w)
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}
