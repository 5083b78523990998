package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/docscan-mcp/internal/geometry"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/pipeline"
)

// pageFlags are the per-page overrides shared by the page commands.
type pageFlags struct {
	segmenter    string
	noPreprocess bool
	corners      []string
	jsonOut      bool
}

func (f *pageFlags) register(cmd *cobra.Command, withCorners bool) {
	cmd.Flags().StringVar(&f.segmenter, "segmenter", "", "glyph segmenter: rowscan or contour")
	cmd.Flags().BoolVar(&f.noPreprocess, "no-preprocess", false, "skip boundary detection and binarize the full frame")
	if withCorners {
		cmd.Flags().StringArrayVar(&f.corners, "corners", nil, `manual page corner "x,y"; give exactly four`)
	}
}

func (f *pageFlags) request() (pipeline.Request, error) {
	req := pipeline.Request{Segmenter: f.segmenter}
	if f.noPreprocess {
		off := false
		req.Preprocessing = &off
	}
	for _, c := range f.corners {
		p, err := parsePoint(c)
		if err != nil {
			return req, err
		}
		req.Corners = append(req.Corners, p)
	}
	return req, nil
}

func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("corner %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("corner %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("corner %q: %w", s, err)
	}
	return geometry.Point{X: x, Y: y}, nil
}

func readImage(path string) (*image.Gray, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return imaging.DecodeGray(data)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var cornersCmd = &cobra.Command{
	Use:   "corners <image>",
	Short: "Detect the page boundary and print the detector report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		p, cleanup, err := newPipeline(cfg, log, false)
		if err != nil {
			return err
		}
		defer cleanup()

		gray, err := readImage(args[0])
		if err != nil {
			return err
		}
		return printJSON(p.DetectCorners(gray))
	},
}

var segmentFlags pageFlags

var segmentCmd = &cobra.Command{
	Use:   "segment <image>",
	Short: "Print the glyph boxes of a page grouped into words",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := segmentFlags.request()
		if err != nil {
			return err
		}
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		p, cleanup, err := newPipeline(cfg, log, false)
		if err != nil {
			return err
		}
		defer cleanup()

		gray, err := readImage(args[0])
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		page, err := p.Segment(ctx, gray, req)
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var textFlags pageFlags

var textCmd = &cobra.Command{
	Use:   "text <image>",
	Short: "Read the text of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := textFlags.request()
		if err != nil {
			return err
		}
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		p, cleanup, err := newPipeline(cfg, log, true)
		if err != nil {
			return err
		}
		defer cleanup()

		gray, err := readImage(args[0])
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		page, err := p.Read(ctx, gray, req)
		if err != nil {
			return err
		}
		if textFlags.jsonOut {
			return printJSON(page)
		}
		fmt.Println(page.Recognition.Text)
		return nil
	},
}

// batchResult is one line of batch output.
type batchResult struct {
	Path  string `json:"path"`
	RunID string `json:"run_id,omitempty"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

var batchFlags pageFlags

var batchCmd = &cobra.Command{
	Use:   "batch <image>...",
	Short: "Read many pages concurrently, one JSON line per page",
	Long: `batch reads every image with up to "workers" pages in flight and prints
one JSON object per image, in argument order. A page that fails is
reported in its line; the command then exits non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := batchFlags.request()
		if err != nil {
			return err
		}
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		p, cleanup, err := newPipeline(cfg, log, true)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signalContext()
		defer stop()

		results := make([]batchResult, len(args))
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				results[i] = batchResult{Path: path}
				gray, err := readImage(path)
				if err == nil {
					var page *pipeline.Page
					page, err = p.Read(ctx, gray, req)
					if err == nil {
						results[i].RunID = page.RunID
						results[i].Text = page.Recognition.Text
					}
				}
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					results[i].Error = err.Error()
					log.WithError(err).WithField("path", path).Warn("Page failed")
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		log.WithFields(logrus.Fields{"pages": len(args), "failed": failed}).Info("Batch complete")
		if failed > 0 {
			return fmt.Errorf("%d of %d pages failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	segmentFlags.register(segmentCmd, true)
	textFlags.register(textCmd, true)
	textCmd.Flags().BoolVar(&textFlags.jsonOut, "json", false, "print the full page result as JSON")
	batchFlags.register(batchCmd, false)
}
