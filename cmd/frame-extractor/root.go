package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codesnippet/internal/config"
	"codesnippet/internal/fileutil"
	"codesnippet/internal/frames"
	"codesnippet/internal/logging"
	"codesnippet/internal/media/ffmpeg"
	"codesnippet/internal/preflight"
	"codesnippet/internal/services/tesseract"
)

const usage = "Usage: frame-extractor <video_path> <output_dir>"

// extractorFactory builds the Extractor for a loaded config.
type extractorFactory func(cfg *config.Config, logger *slog.Logger) (*frames.Extractor, error)

func newExtractor(cfg *config.Config, logger *slog.Logger) (*frames.Extractor, error) {
	ocr, err := tesseract.New(cfg.OCR.Binary, cfg.OCR.Language, tesseract.WithTessdataDir(cfg.OCR.TessdataDir))
	if err != nil {
		return nil, err
	}
	opener := ffmpeg.NewOpener(cfg.Video.FFmpegBinary, cfg.Video.FFprobeBinary)
	return frames.NewExtractor(opener, ocr, frames.Options{
		Remediation: cfg.OCR.Remediation,
		JPEGQuality: cfg.Video.JPEGQuality,
		Logger:      logger,
	}), nil
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(newExtractor)
}

func newRootCommandWith(factory extractorFactory) *cobra.Command {
	var configFlag string

	cmd := &cobra.Command{
		Use:           "frame-extractor <video_path> <output_dir>",
		Short:         "Sample video frames and recognize their text",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New(usage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(strings.TrimSpace(configFlag))
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

			warnMissingDecoders(cfg, logger)

			extractor, err := factory(cfg, logger)
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), extractor, args[0], args[1], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	return cmd
}

// warnMissingDecoders reports unavailable ffmpeg/ffprobe binaries at debug
// level. The OCR engine is reported by the extractor itself.
func warnMissingDecoders(cfg *config.Config, logger *slog.Logger) {
	for _, status := range preflight.CheckSystemDeps(cfg, preflight.ToolFrameExtractor) {
		if status.Available || status.Name == "Tesseract" {
			continue
		}
		logger.Debug("dependency unavailable",
			logging.String("name", status.Name),
			logging.String("detail", status.Detail),
		)
	}
}

func runExtract(ctx context.Context, extractor *frames.Extractor, videoPath, outputDir string, stdout io.Writer) error {
	records, err := extractor.Run(ctx, videoPath, outputDir)
	if err != nil {
		return err
	}
	if err := fileutil.EncodeJSON(stdout, records, false); err != nil {
		return fmt.Errorf("write frames: %w", err)
	}
	return nil
}
