package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_edge_detect",
		"page_detect_corners",
		"page_rectify",
		"page_segment",
		"page_to_text",
		"page_annotate",
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Fatal("InputSchema missing 'properties'")
			}
			if _, ok := props["path"]; !ok {
				t.Error("every tool accepts a path")
			}
		})
	}
}

func TestToolDefinitions_PageOverrides(t *testing.T) {
	pageTools := map[string]bool{
		"page_rectify":  true,
		"page_segment":  true,
		"page_to_text":  true,
		"page_annotate": true,
	}

	for _, tool := range GetToolDefinitions() {
		if !pageTools[tool.Name] {
			continue
		}
		t.Run(tool.Name, func(t *testing.T) {
			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, key := range []string{"image", "corners", "preprocessing", "segmenter"} {
				if _, ok := props[key]; !ok {
					t.Errorf("missing property %q", key)
				}
			}
		})
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "image_edge_detect" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		low := props["threshold_low"].(map[string]interface{})
		high := props["threshold_high"].(map[string]interface{})
		if low["default"] != 50 || high["default"] != 250 {
			t.Errorf("edge thresholds default to %v/%v, want 50/250", low["default"], high["default"])
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := newTestServer(t, nil)

	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	// The list must survive the trip to the client.
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	var decoded struct {
		Result struct {
			Tools []Tool `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools after encoding, want %d", len(decoded.Result.Tools), len(GetToolDefinitions()))
	}
	for _, tool := range decoded.Result.Tools {
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s lost its schema type", tool.Name)
		}
	}
}
