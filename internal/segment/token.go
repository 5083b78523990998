package segment

import "github.com/ironsheep/docscan-mcp/internal/geometry"

// Token is either a glyph rectangle or a word break.
type Token struct {
	Rect  geometry.Rect `json:"rect"`
	Space bool          `json:"space,omitempty"`
}

// SpaceToken marks a break between words.
var SpaceToken = Token{Space: true}

// Word is the glyphs of one word, left to right.
type Word []geometry.Rect

// Words is a page's words in reading order.
type Words []Word

// AssembleWords splits tokens on Space markers. Runs without glyphs, from
// leading, trailing or repeated spaces, produce no word.
func AssembleWords(tokens []Token) Words {
	words := make(Words, 0)
	var word Word
	for _, tok := range tokens {
		if tok.Space {
			if len(word) > 0 {
				words = append(words, word)
			}
			word = nil
			continue
		}
		word = append(word, tok.Rect)
	}
	if len(word) > 0 {
		words = append(words, word)
	}
	return words
}

// Tokens flattens the words back into a token stream with one space between
// consecutive words.
func (ws Words) Tokens() []Token {
	tokens := make([]Token, 0)
	for i, w := range ws {
		if i > 0 {
			tokens = append(tokens, SpaceToken)
		}
		for _, r := range w {
			tokens = append(tokens, Token{Rect: r})
		}
	}
	return tokens
}

// Rects returns the words as plain rect slices.
func (ws Words) Rects() [][]geometry.Rect {
	out := make([][]geometry.Rect, len(ws))
	for i, w := range ws {
		out[i] = []geometry.Rect(w)
	}
	return out
}

// GlyphCount returns the total number of glyphs.
func (ws Words) GlyphCount() int {
	n := 0
	for _, w := range ws {
		n += len(w)
	}
	return n
}
