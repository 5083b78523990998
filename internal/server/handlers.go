package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/pipeline"
	"github.com/ironsheep/docscan-mcp/internal/rectify"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "page_to_text").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Warn("Tool execution failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	case "page_detect_corners":
		return s.handlePageDetectCorners(args)
	case "page_rectify":
		return s.handlePageRectify(args)
	case "page_segment":
		return s.handlePageSegment(ctx, args)
	case "page_to_text":
		return s.handlePageToText(ctx, args)
	case "page_annotate":
		return s.handlePageAnnotate(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// imageSource names a photo either by file path or as base64 data.
type imageSource struct {
	Path  string `json:"path"`
	Image string `json:"image"`
}

func (s *Server) loadImage(src imageSource) (*image.Gray, error) {
	switch {
	case src.Path != "":
		return s.cache.Load(src.Path)
	case src.Image != "":
		return imaging.DecodeBase64Gray(src.Image)
	default:
		return nil, errors.New("either path or image is required")
	}
}

// pageArgs are shared by the page_* tools.
type pageArgs struct {
	imageSource
	Corners       []geometry.Point `json:"corners"`
	Preprocessing *bool            `json:"preprocessing"`
	Segmenter     string           `json:"segmenter"`
}

func (a pageArgs) request() pipeline.Request {
	return pipeline.Request{Corners: a.Corners, Preprocessing: a.Preprocessing, Segmenter: a.Segmenter}
}

// preprocessSummary is the part of rectify.Result every page tool reports.
type preprocessSummary struct {
	Rectified bool           `json:"rectified"`
	Manual    bool           `json:"manual"`
	Fallback  string         `json:"fallback,omitempty"`
	Corners   *geometry.Quad `json:"corners,omitempty"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
}

func summarize(res rectify.Result) preprocessSummary {
	return preprocessSummary{
		Rectified: res.Rectified,
		Manual:    res.Manual,
		Fallback:  res.Fallback,
		Corners:   res.Corners,
		Width:     res.Page.Bounds().Dx(),
		Height:    res.Page.Bounds().Dy(),
	}
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageEdgeDetectArgs struct {
	imageSource
	ThresholdLow  int `json:"threshold_low"`
	ThresholdHigh int `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 250
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}

// === Page Handlers ===

type detectCornersResult struct {
	Found         bool             `json:"found"`
	Corners       []geometry.Point `json:"corners"`
	Candidates    []geometry.Point `json:"candidates"`
	Segments      int              `json:"segments"`
	Intersections int              `json:"intersections"`
}

func (s *Server) handlePageDetectCorners(args json.RawMessage) (interface{}, error) {
	var a imageSource
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a)
	if err != nil {
		return nil, err
	}

	report := s.pipeline.DetectCorners(img)
	result := &detectCornersResult{
		Found:         report.Found,
		Corners:       []geometry.Point{},
		Candidates:    report.Corners,
		Segments:      len(report.Segments),
		Intersections: len(report.Intersections),
	}
	if report.Found {
		result.Corners = report.Quad.Points()
	}
	return result, nil
}

type rectifyResult struct {
	preprocessSummary
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handlePageRectify(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline.Rectify(img, a.request())
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(res.Page)
	if err != nil {
		return nil, err
	}
	return &rectifyResult{
		preprocessSummary: summarize(res),
		ImageBase64:       encoded,
		MimeType:          "image/png",
	}, nil
}

type segmentResult struct {
	RunID     string `json:"run_id"`
	Segmenter string `json:"segmenter"`
	preprocessSummary
	WordCount  int               `json:"word_count"`
	GlyphCount int               `json:"glyph_count"`
	Words      [][]geometry.Rect `json:"words"`
}

func (s *Server) handlePageSegment(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}

	page, err := s.pipeline.Segment(ctx, img, a.request())
	if err != nil {
		return nil, err
	}
	return &segmentResult{
		RunID:             page.RunID,
		Segmenter:         page.Segmenter,
		preprocessSummary: summarize(page.Preprocess),
		WordCount:         len(page.Words),
		GlyphCount:        page.Words.GlyphCount(),
		Words:             page.Words.Rects(),
	}, nil
}

type textResult struct {
	RunID string `json:"run_id"`
	Text  string `json:"text"`
	Raw   string `json:"raw"`
	preprocessSummary
	WordCount int                `json:"word_count"`
	Failures  []ocr.GlyphFailure `json:"failures,omitempty"`
}

func (s *Server) handlePageToText(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}

	page, err := s.pipeline.Read(ctx, img, a.request())
	if err != nil {
		return nil, err
	}
	return &textResult{
		RunID:             page.RunID,
		Text:              page.Recognition.Text,
		Raw:               page.Recognition.Raw,
		preprocessSummary: summarize(page.Preprocess),
		WordCount:         len(page.Words),
		Failures:          page.Recognition.Failures,
	}, nil
}

type pageAnnotateArgs struct {
	pageArgs
	View        string `json:"view"`
	Numbered    bool   `json:"numbered"`
	BoxColor    string `json:"box_color"`
	CornerColor string `json:"corner_color"`
}

func (s *Server) handlePageAnnotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pageAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadImage(a.imageSource)
	if err != nil {
		return nil, err
	}

	switch a.View {
	case "corners":
		res, err := s.pipeline.Rectify(img, a.request())
		if err != nil {
			return nil, err
		}
		return imaging.Annotate(img, imaging.AnnotateOptions{Corners: res.Corners, CornerColor: a.CornerColor})
	case "", "glyphs":
		page, err := s.pipeline.Segment(ctx, img, a.request())
		if err != nil {
			return nil, err
		}
		return imaging.Annotate(page.Preprocess.Page, imaging.AnnotateOptions{
			Words:    page.Words.Rects(),
			Numbered: a.Numbered,
			BoxColor: a.BoxColor,
		})
	default:
		return nil, fmt.Errorf("unknown view: %s (use glyphs or corners)", a.View)
	}
}
