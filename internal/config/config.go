// Package config loads docscan settings.
//
// Settings are layered, later layers winning:
//  1. Default values
//  2. An optional YAML file
//  3. An optional .env file, which only fills variables not already set
//  4. DOCSCAN_* environment variables
//
// The result is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/rectify"
	"github.com/ironsheep/docscan-mcp/internal/segment"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCSCAN_"

// Config holds all docscan settings.
type Config struct {
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`

	// Segmenter selects the glyph segmentation strategy.
	Segmenter string `yaml:"segmenter"`

	// Workers bounds concurrent pages in batch mode.
	Workers int `yaml:"workers"`

	// Dictionary is a word list for spelling correction; empty disables it.
	Dictionary string `yaml:"dictionary"`

	// DenoiseRadius is the median filter radius applied to glyphs; 0 disables it.
	DenoiseRadius float64 `yaml:"denoise_radius"`

	Preprocess rectify.Options   `yaml:"preprocess"`
	Segment    segment.Options   `yaml:"segment"`
	OCR        ocr.EngineOptions `yaml:"ocr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		Segmenter:     segment.RowScanName,
		Workers:       4,
		DenoiseRadius: 1,
		Preprocess:    rectify.DefaultOptions(),
		Segment:       segment.DefaultOptions(),
		OCR:           ocr.DefaultEngineOptions(),
	}
}

// Load builds the configuration from the defaults, file and environment.
// Either path may be empty. A missing .env file is not an error; a missing
// config file is.
func Load(file, envFile string) (*Config, error) {
	cfg := Default()

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"LOG_LEVEL":       &c.LogLevel,
		"SEGMENTER":       &c.Segmenter,
		"DICTIONARY":      &c.Dictionary,
		"LANGUAGE":        &c.OCR.Language,
		"TESSDATA_PREFIX": &c.OCR.TessdataPrefix,
		"WHITELIST":       &c.OCR.Whitelist,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sWORKERS: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Workers = n
	}

	if v, ok := lookup("PREPROCESSING"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sPREPROCESSING: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Preprocess.Enabled = b
	}

	floats := map[string]*float64{
		"DENOISE_RADIUS": &c.DenoiseRadius,
		"ERODE_RADIUS":   &c.Preprocess.ErodeRadius,
		"MIN_AREA_RATIO": &c.Preprocess.MinAreaRatio,
	}
	for key, dst := range floats {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalid, EnvPrefix, key, err)
		}
		*dst = f
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Validate checks every setting and returns an error wrapping ErrInvalid
// that names the first bad one.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	if _, err := segment.New(c.Segmenter, c.Segment); err != nil {
		return fmt.Errorf("%w: segmenter: %v", ErrInvalid, err)
	}
	if c.Workers < 1 || c.Workers > 64 {
		return fmt.Errorf("%w: workers must be between 1 and 64, got %d", ErrInvalid, c.Workers)
	}
	if c.DenoiseRadius < 0 {
		return fmt.Errorf("%w: denoise_radius must not be negative", ErrInvalid)
	}
	if c.OCR.Language == "" {
		return fmt.Errorf("%w: ocr.language is required", ErrInvalid)
	}

	p := c.Preprocess
	if p.MinAreaRatio < 0 || p.MinAreaRatio >= 1 {
		return fmt.Errorf("%w: preprocess.min_area_ratio must be in [0, 1), got %g", ErrInvalid, p.MinAreaRatio)
	}
	if p.ErodeRadius < 0 {
		return fmt.Errorf("%w: preprocess.erode_radius must not be negative", ErrInvalid)
	}
	b := p.Boundary
	if b.CannyLow < 0 || b.CannyHigh > 255 || b.CannyLow > b.CannyHigh {
		return fmt.Errorf("%w: canny thresholds must satisfy 0 <= low <= high <= 255, got %d/%d", ErrInvalid, b.CannyLow, b.CannyHigh)
	}
	if b.HoughThreshold < 1 || b.LineRatio <= 0 || b.CornerDistanceRatio <= 0 || b.MaxLines < 2 {
		return fmt.Errorf("%w: boundary detector needs positive thresholds and at least 2 lines", ErrInvalid)
	}

	s := c.Segment
	if s.InkLevel == 0 {
		return fmt.Errorf("%w: segment.ink_level must be positive", ErrInvalid)
	}
	for name, v := range map[string]float64{
		"space_divisor":         s.SpaceDivisor,
		"contour_space_divisor": s.ContourSpaceDivisor,
		"line_gap_divisor":      s.LineGapDivisor,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: segment.%s must be positive", ErrInvalid, name)
		}
	}
	if s.MinAreaRatio > s.MaxAreaRatio {
		return fmt.Errorf("%w: segment.min_area_ratio exceeds max_area_ratio", ErrInvalid)
	}
	return nil
}
