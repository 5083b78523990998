package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Segmenter != "rowscan" || cfg.Segment.MinGlyphArea != 200 || cfg.Preprocess.Boundary.HoughThreshold != 150 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Layers(t *testing.T) {
	file := writeFile(t, "docscan.yaml", `
log_level: debug
segmenter: contour
workers: 2
preprocess:
  min_area_ratio: 0.2
  boundary:
    hough_threshold: 120
segment:
  min_glyph_area: 150
`)
	envFile := writeFile(t, ".env", "DOCSCAN_WORKERS=3\nDOCSCAN_LOG_LEVEL=warn\n")
	// godotenv sets variables process-wide.
	t.Cleanup(func() { os.Unsetenv("DOCSCAN_WORKERS") })
	t.Setenv("DOCSCAN_LOG_LEVEL", "error")
	t.Setenv("DOCSCAN_PREPROCESSING", "false")

	cfg, err := Load(file, envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want the environment to win over .env", cfg.LogLevel)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want .env to win over the file", cfg.Workers)
	}
	if cfg.Segmenter != "contour" || cfg.Segment.MinGlyphArea != 150 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Preprocess.Enabled {
		t.Error("DOCSCAN_PREPROCESSING=false should disable preprocessing")
	}
	if cfg.Preprocess.MinAreaRatio != 0.2 || cfg.Preprocess.Boundary.HoughThreshold != 120 {
		t.Errorf("nested file values not applied: %+v", cfg.Preprocess)
	}
	if cfg.Preprocess.Boundary.CannyHigh != 250 || cfg.Segment.SpaceDivisor != 1.5 {
		t.Error("values absent from the file should keep their defaults")
	}
}

func TestLoad_MissingFiles(t *testing.T) {
	if _, err := Load("", filepath.Join(t.TempDir(), "none.env")); err != nil {
		t.Errorf("a missing .env file should be ignored: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml"), ""); err == nil {
		t.Error("a missing config file should be an error")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{"unknown segmenter", "segmenter: watershed\n", nil},
		{"bad log level", "log_level: loud\n", nil},
		{"zero workers", "workers: 0\n", nil},
		{"area ratio", "preprocess:\n  min_area_ratio: 1.5\n", nil},
		{"canny order", "preprocess:\n  boundary:\n    canny_low: 200\n    canny_high: 100\n", nil},
		{"space divisor", "segment:\n  space_divisor: 0\n", nil},
		{"non-numeric workers", "", map[string]string{"DOCSCAN_WORKERS": "many"}},
		{"non-boolean preprocessing", "", map[string]string{"DOCSCAN_PREPROCESSING": "sometimes"}},
		{"non-numeric radius", "", map[string]string{"DOCSCAN_ERODE_RADIUS": "wide"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			file := ""
			if tt.yaml != "" {
				file = writeFile(t, "docscan.yaml", tt.yaml)
			}
			_, err := Load(file, "")
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	file := writeFile(t, "docscan.yaml", "workers: [1, 2\n")
	if _, err := Load(file, ""); err == nil {
		t.Error("malformed YAML should fail to load")
	}
}
