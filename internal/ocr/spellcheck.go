package ocr

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/sajari/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dictionary corrects words against a trained word list.
type Dictionary struct {
	model *fuzzy.Model
	size  int
}

// NewDictionary trains a model on words. Every word counts, however rare.
func NewDictionary(words []string) *Dictionary {
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)

	lower := cases.Lower(language.English)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			terms = append(terms, lower.String(w))
		}
	}
	model.Train(terms)
	return &Dictionary{model: model, size: len(terms)}
}

// LoadDictionary reads a word list with whitespace separated words.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	words := make([]string, 0)
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return NewDictionary(words), nil
}

// Size returns the number of trained words, duplicates included.
func (d *Dictionary) Size() int { return d.size }

// Correct returns the closest dictionary word, keeping a leading capital.
// Words with no candidate within two edits come back unchanged.
func (d *Dictionary) Correct(word string) string {
	if word == "" {
		return word
	}
	suggestion := d.model.SpellCheck(cases.Lower(language.English).String(word))
	if suggestion == "" {
		return word
	}
	for _, r := range word {
		if unicode.IsUpper(r) {
			return cases.Title(language.English).String(suggestion)
		}
		break
	}
	return suggestion
}
