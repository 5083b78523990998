// Package server implements the MCP (Model Context Protocol) server for the
// document reading pipeline.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image:
//   - image_load: Load image and get metadata
//   - image_edge_detect: Canny edge map
//
// Page pipeline:
//   - page_detect_corners: Hough boundary detection
//   - page_rectify: Perspective correction and binarization
//   - page_segment: Glyph boxes grouped into words
//   - page_to_text: Full recognition with word correction
//   - page_annotate: Debug overlay of corners or glyph boxes
//
// Every tool takes the photo as either "path" or base64 "image". The page
// tools also accept manual "corners", a "preprocessing" switch and a
// "segmenter" name, all overriding the server configuration for one call.
//
// # Image Caching
//
// Images named by path are decoded once and cached for the lifetime of the
// server process. Base64 images are never cached.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: the Go error string
//
// A page without a detectable boundary is not an error; the result carries a
// "fallback" reason instead.
//
// # Usage
//
//	p, err := pipeline.New(cfg, engine, log)
//	...
//	srv := server.New(p, log)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
