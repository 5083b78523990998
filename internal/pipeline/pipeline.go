// Package pipeline runs a page photo through preprocessing, segmentation and
// recognition, and logs what each stage decided.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/rectify"
	"github.com/ironsheep/docscan-mcp/internal/segment"
)

// ErrNoClassifier is returned by Read when the pipeline has no classifier.
var ErrNoClassifier = errors.New("no classifier configured")

// Request carries the per-page overrides.
type Request struct {
	// Corners are manual page corners in any order; empty means detect.
	Corners []geometry.Point

	// Preprocessing overrides the configured boundary detection switch.
	Preprocessing *bool

	// Segmenter overrides the configured strategy.
	Segmenter string
}

// Page is the outcome of processing one photo.
type Page struct {
	RunID string `json:"run_id"`

	// Preprocess describes the binarized page the words refer to.
	Preprocess rectify.Result `json:"preprocess"`

	Segmenter string        `json:"segmenter"`
	Words     segment.Words `json:"words"`

	// Recognition is set by Read only.
	Recognition *ocr.Recognition `json:"recognition,omitempty"`
}

// Pipeline holds the configured stages. It is safe for concurrent use when
// its classifier is.
type Pipeline struct {
	cfg        *config.Config
	recognizer *ocr.Recognizer
	log        logrus.FieldLogger
}

// New builds a pipeline. classifier may be nil, in which case Read fails
// and everything else works. The dictionary named by cfg is loaded here.
func New(cfg *config.Config, classifier ocr.Classifier, log logrus.FieldLogger) (*Pipeline, error) {
	p := &Pipeline{cfg: cfg, log: log}
	if classifier == nil {
		return p, nil
	}

	r := &ocr.Recognizer{Classifier: classifier}
	if cfg.DenoiseRadius > 0 {
		r.Denoiser = ocr.MedianDenoiser{Radius: cfg.DenoiseRadius}
	}
	if cfg.Dictionary != "" {
		dict, err := ocr.LoadDictionary(cfg.Dictionary)
		if err != nil {
			return nil, err
		}
		log.WithField("words", dict.Size()).Debug("Dictionary loaded")
		r.Spellchecker = dict
	}
	p.recognizer = r
	return p, nil
}

// DetectCorners runs boundary detection alone, for previewing corners
// before a full run.
func (p *Pipeline) DetectCorners(gray *image.Gray) detection.BoundaryReport {
	report := detection.InspectPageBoundary(gray, p.cfg.Preprocess.Boundary)
	p.logBoundary(p.log.WithField("run_id", uuid.NewString()), &report)
	return report
}

// Rectify preprocesses gray and returns the binarized page.
func (p *Pipeline) Rectify(gray *image.Gray, req Request) (rectify.Result, error) {
	return p.preprocess(p.log.WithField("run_id", uuid.NewString()), gray, req)
}

// Segment preprocesses and segments a page.
func (p *Pipeline) Segment(ctx context.Context, gray *image.Gray, req Request) (*Page, error) {
	page, _, err := p.segment(ctx, gray, req)
	return page, err
}

// Read runs every stage including recognition.
func (p *Pipeline) Read(ctx context.Context, gray *image.Gray, req Request) (*Page, error) {
	if p.recognizer == nil {
		return nil, ErrNoClassifier
	}

	page, log, err := p.segment(ctx, gray, req)
	if err != nil {
		return nil, err
	}

	rec, err := p.recognizer.Recognize(ctx, page.Preprocess.Page, page.Words)
	if err != nil {
		return nil, fmt.Errorf("recognition interrupted: %w", err)
	}
	for _, f := range rec.Failures {
		log.WithFields(logrus.Fields{"word": f.Word, "glyph": f.Glyph}).Warnf("Glyph unreadable: %s", f.Error)
	}
	log.WithFields(logrus.Fields{"chars": len(rec.Text), "failures": len(rec.Failures)}).Info("Page read")

	page.Recognition = &rec
	return page, nil
}

func (p *Pipeline) segment(ctx context.Context, gray *image.Gray, req Request) (*Page, logrus.FieldLogger, error) {
	name := req.Segmenter
	if name == "" {
		name = p.cfg.Segmenter
	}
	seg, err := segment.New(name, p.cfg.Segment)
	if err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()
	log := p.log.WithField("run_id", runID)

	res, err := p.preprocess(log, gray, req)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	words := segment.AssembleWords(seg.Segment(res.Page))
	log.WithFields(logrus.Fields{
		"segmenter": name,
		"words":     len(words),
		"glyphs":    words.GlyphCount(),
	}).Debug("Page segmented")

	return &Page{
		RunID:      runID,
		Preprocess: res,
		Segmenter:  name,
		Words:      words,
	}, log, nil
}

func (p *Pipeline) preprocess(log logrus.FieldLogger, gray *image.Gray, req Request) (rectify.Result, error) {
	opts := p.cfg.Preprocess
	if req.Preprocessing != nil {
		opts.Enabled = *req.Preprocessing
	}

	res, err := rectify.Preprocess(gray, req.Corners, opts)
	if err != nil {
		log.WithError(err).Warn("Rejected manual corners")
		return res, err
	}

	if res.Boundary != nil {
		p.logBoundary(log, res.Boundary)
	}
	switch {
	case res.Manual:
		log.WithField("corners", res.Corners).Debug("Using manual corners")
	case res.Fallback != "":
		log.WithField("reason", res.Fallback).Info("Falling back to full frame")
	default:
		log.WithField("corners", res.Corners).Debug("Page rectified")
	}
	return res, nil
}

func (p *Pipeline) logBoundary(log logrus.FieldLogger, r *detection.BoundaryReport) {
	log.WithFields(logrus.Fields{
		"segments":      len(r.Segments),
		"intersections": len(r.Intersections),
		"corners":       len(r.Corners),
		"found":         r.Found,
	}).Debug("Boundary detection")
}
