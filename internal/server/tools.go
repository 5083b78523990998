package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProperties are the two ways every image tool accepts a photo.
func imageProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"image": map[string]interface{}{
			"type":        "string",
			"description": "Base64-encoded image data, used when path is not given",
		},
	}
}

// pageProperties adds the per-page overrides shared by the page_* tools.
func pageProperties() map[string]interface{} {
	props := imageProperties()
	props["corners"] = map[string]interface{}{
		"type":        "array",
		"description": "Four manual page corners in any order; skips boundary detection",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
			},
			"required": []string{"x", "y"},
		},
	}
	props["preprocessing"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Detect and rectify the page boundary. Defaults to the server configuration",
	}
	props["segmenter"] = map[string]interface{}{
		"type":        "string",
		"description": "Glyph segmentation strategy",
		"enum":        []string{"rowscan", "contour"},
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	annotateProps := pageProperties()
	annotateProps["view"] = map[string]interface{}{
		"type":        "string",
		"description": "glyphs draws word and glyph boxes on the processed page; corners draws the page boundary on the photo",
		"enum":        []string{"glyphs", "corners"},
		"default":     "glyphs",
	}
	annotateProps["numbered"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Label each word with its 1-based position",
	}
	annotateProps["box_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex color of glyph boxes (default #FF0000)",
	}
	annotateProps["corner_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex color of the boundary outline (default #00C800)",
	}

	edgeProps := imageProperties()
	edgeProps["threshold_low"] = map[string]interface{}{
		"type":        "integer",
		"description": "Lower hysteresis threshold (0-255). Default 50",
		"default":     50,
	}
	edgeProps["threshold_high"] = map[string]interface{}{
		"type":        "integer",
		"description": "Upper hysteresis threshold (0-255). Default 250",
		"default":     250,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded page is cached for later calls with the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection, the first stage of page boundary detection, and return the edge map as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": edgeProps,
			},
		},

		// Page Pipeline
		{
			Name:        "page_detect_corners",
			Description: "Find the four corners of a document page in a photo using Hough line intersections. Reports found=false, not an error, when no single page outline is visible.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": imageProperties(),
			},
		},
		{
			Name:        "page_rectify",
			Description: "Warp the page to a flat rectangle and binarize it. Falls back to the binarized full frame when no usable boundary is found and says why.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pageProperties(),
			},
		},
		{
			Name:        "page_segment",
			Description: "Split the processed page into words of glyph bounding boxes, in reading order.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pageProperties(),
			},
		},
		{
			Name:        "page_to_text",
			Description: "Read the page: preprocess, segment, classify each glyph and correct the words. Returns the corrected text and the raw classifier output.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pageProperties(),
			},
		},
		{
			Name:        "page_annotate",
			Description: "Draw the detected page boundary or the glyph boxes for visual debugging. Returns base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": annotateProps,
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
