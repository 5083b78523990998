package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/logging"
	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/pipeline"
	"github.com/ironsheep/docscan-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "docscan-mcp",
	Short: "Read text from photographed document pages",
	Long: `docscan-mcp finds a document page in a photo, flattens it, splits it into
glyphs and words, and reads them with Tesseract.

Run without a subcommand it serves the MCP protocol over stdin/stdout.
Logs go to stderr.

Environment variables (DOCSCAN_ prefix) override the config file:
  DOCSCAN_LOG_LEVEL=debug    Enable debug logging
  DOCSCAN_SEGMENTER=contour  Select the glyph segmenter`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools over stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and OCR backend information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("docscan-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)

		cfg, err := config.Load(configFile, envFile)
		if err != nil {
			return err
		}
		info := ocr.Probe(cfg.OCR)
		if info.Available {
			fmt.Printf("  Tesseract:  %s (%s)\n", info.Version, info.Language)
		} else {
			fmt.Printf("  Tesseract:  unavailable (%s)\n", info.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before DOCSCAN_* variables")

	rootCmd.AddCommand(serveCmd, versionCmd, cornersCmd, segmentCmd, textCmd, batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and builds the stderr logger.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newPipeline builds the pipeline. With requireOCR unset a missing Tesseract
// is only a warning and text recognition fails per request.
func newPipeline(cfg *config.Config, log *logrus.Logger, requireOCR bool) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	var classifier ocr.Classifier
	engine, err := ocr.NewEngine(cfg.OCR)
	switch {
	case err == nil:
		classifier = engine
		cleanup = func() {
			if err := engine.Close(); err != nil {
				log.WithError(err).Warn("Failed to close OCR engine")
			}
		}
		log.WithFields(logrus.Fields{
			"version":  engine.Version(),
			"language": cfg.OCR.Language,
		}).Debug("OCR engine ready")
	case requireOCR:
		return nil, nil, err
	default:
		log.WithError(err).Warn("OCR engine unavailable, text recognition disabled")
	}

	p, err := pipeline.New(cfg, classifier, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	p, cleanup, err := newPipeline(cfg, log, false)
	if err != nil {
		return err
	}
	defer cleanup()

	log.WithFields(logrus.Fields{
		"version":   Version,
		"built":     BuildTime,
		"commit":    GitCommit,
		"segmenter": cfg.Segmenter,
	}).Info("Docscan MCP server starting")

	ctx, stop := signalContext()
	defer stop()

	server.Version = Version
	srv := server.New(p, log)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
