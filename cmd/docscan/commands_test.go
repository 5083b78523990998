package main

import (
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    geometry.Point
		wantErr bool
	}{
		{"100,200", geometry.Pt(100, 200), false},
		{" 1.5 , 2 ", geometry.Point{X: 1.5, Y: 2}, false},
		{"100", geometry.Point{}, true},
		{"x,2", geometry.Point{}, true},
		{"1,y", geometry.Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageFlags_Request(t *testing.T) {
	f := pageFlags{
		segmenter:    "contour",
		noPreprocess: true,
		corners:      []string{"0,0", "10,0", "10,10", "0,10"},
	}

	req, err := f.request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.Segmenter != "contour" || len(req.Corners) != 4 {
		t.Errorf("got %+v", req)
	}
	if req.Preprocessing == nil || *req.Preprocessing {
		t.Error("--no-preprocess should disable preprocessing")
	}

	if req, _ := (&pageFlags{}).request(); req.Preprocessing != nil {
		t.Error("preprocessing should follow the configuration by default")
	}

	if _, err := (&pageFlags{corners: []string{"bad"}}).request(); err == nil {
		t.Error("malformed corner should fail")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "version", "corners", "segment", "text", "batch"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}
