package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"
	"unicode"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// DefaultWhitelist is the character set the classifier may return.
const DefaultWhitelist = "abcdefghijklmnopqrstuvwxyz0123456789"

// EngineOptions configures the Tesseract classifier.
type EngineOptions struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string `yaml:"language" json:"language"`

	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string `yaml:"tessdata_prefix" json:"tessdata_prefix"`

	// Whitelist restricts the recognized characters.
	Whitelist string `yaml:"whitelist" json:"whitelist"`
}

// DefaultEngineOptions returns English with lowercase letters and digits.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{Language: "eng", Whitelist: DefaultWhitelist}
}

// Engine classifies single glyphs with Tesseract. It owns one client for its
// whole lifetime; call Close when done.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	opts   EngineOptions
}

// NewEngine creates the Tesseract client and verifies that it initializes
// with the requested language. It fails when Tesseract or the language data
// is missing.
func NewEngine(opts EngineOptions) (*Engine, error) {
	client := gosseract.NewClient()

	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	e := &Engine{client: client, opts: opts}

	// Tesseract only initializes on first recognition.
	blank := imaging.NewBlank(imaging.DefaultGlyphSize, imaging.DefaultGlyphSize, 255)
	if _, err := e.Classify(blank); err != nil && !errors.Is(err, ErrNoCharacter) {
		client.Close()
		return nil, fmt.Errorf("tesseract unavailable: %w", err)
	}
	return e, nil
}

// Classify returns the first character Tesseract reads in glyph, lowercased.
func (e *Engine) Classify(glyph image.Image) (rune, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, glyph); err != nil {
		return 0, fmt.Errorf("failed to encode glyph: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return 0, fmt.Errorf("OCR failed: %w", err)
	}

	for _, r := range strings.TrimSpace(text) {
		return unicode.ToLower(r), nil
	}
	return 0, ErrNoCharacter
}

// Version returns the Tesseract library version.
func (e *Engine) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Version()
}

// Close releases the Tesseract client.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}

// EngineInfo describes the OCR backend.
type EngineInfo struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language"`
	Error     string `json:"error,omitempty"`
	Backend   string `json:"backend"`
}

// Probe reports whether an Engine can be created with opts.
func Probe(opts EngineOptions) EngineInfo {
	info := EngineInfo{Language: opts.Language, Backend: "gosseract"}

	e, err := NewEngine(opts)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer e.Close()

	info.Available = true
	info.Version = e.Version()
	return info
}
