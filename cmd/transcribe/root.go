package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codesnippet/internal/config"
	"codesnippet/internal/logging"
	"codesnippet/internal/services"
	"codesnippet/internal/services/whisper"
	"codesnippet/internal/transcript"
)

// transcriber is the slice of whisper.Service the command drives.
type transcriber interface {
	Load(ctx context.Context) error
	Transcribe(ctx context.Context, source, workDir string) ([]whisper.Segment, error)
}

type transcribeOptions struct {
	AudioPath  string
	OutputPath string
	WorkRoot   string
	Whisper    whisper.Config
}

type runDeps struct {
	newTranscriber func(whisper.Config) transcriber
	now            func() time.Time
	runID          func() string
}

func defaultDeps() runDeps {
	return runDeps{
		newTranscriber: func(cfg whisper.Config) transcriber { return whisper.NewService(cfg) },
		now:            time.Now,
		runID:          uuid.NewString,
	}
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(defaultDeps())
}

func newRootCommandWith(deps runDeps) *cobra.Command {
	var configFlag string
	var modelFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:           "transcribe <audio_path>",
		Short:         "Transcribe an audio file to timed JSON segments",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(strings.TrimSpace(configFlag))
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			model := cfg.Transcribe.Model
			if cmd.Flags().Changed("model") {
				model = strings.TrimSpace(modelFlag)
			}

			opts := transcribeOptions{
				AudioPath:  args[0],
				OutputPath: strings.TrimSpace(outputFlag),
				WorkRoot:   cfg.WorkDir(),
				Whisper:    whisperConfig(cfg, model),
			}
			return runTranscribe(cmd.Context(), opts, cmd.OutOrStdout(), logger, deps)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&modelFlag, "model", whisper.DefaultModel, "Whisper model to use (tiny, base, small, medium, large)")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Path to save the output JSON")
	return cmd
}

func whisperConfig(cfg *config.Config, model string) whisper.Config {
	return whisper.Config{
		Engine:      cfg.Transcribe.Engine,
		Model:       model,
		Language:    cfg.Transcribe.Language,
		Binary:      cfg.Transcribe.Binary,
		UVXBinary:   cfg.Transcribe.UVXBinary,
		ModelDir:    cfg.Transcribe.ModelDir,
		Device:      cfg.Transcribe.Device,
		CUDAEnabled: cfg.Transcribe.CUDAEnabled,
	}
}

func runTranscribe(ctx context.Context, opts transcribeOptions, stdout io.Writer, logger *slog.Logger, deps runDeps) error {
	runID := deps.runID()
	logger = logger.With(logging.String(logging.FieldRunID, runID))
	logger = logging.NewComponentLogger(logger, "transcribe")

	logger.Info("Processing audio file: " + opts.AudioPath)
	info, err := os.Stat(opts.AudioPath)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "transcribe", "open audio", opts.AudioPath, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "transcribe", "open audio", opts.AudioPath+" is a directory", nil)
	}

	svc := deps.newTranscriber(opts.Whisper)
	logger.Info("Loading Whisper model")
	logger.Debug("engine selected",
		logging.String("engine", opts.Whisper.Engine),
		logging.String("model", opts.Whisper.Model),
	)
	if err := svc.Load(ctx); err != nil {
		return err
	}

	workDir := filepath.Join(opts.WorkRoot, "transcribe-"+runID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("work dir cleanup failed", logging.String("path", workDir), logging.Error(err))
		}
	}()

	logger.Info("Starting transcription")
	started := deps.now()
	segments, err := svc.Transcribe(ctx, opts.AudioPath, workDir)
	if err != nil {
		return err
	}
	logger.Debug("transcription finished",
		logging.Int("segments", len(segments)),
		logging.Duration("elapsed", deps.now().Sub(started)),
	)

	doc := transcript.Build(segments, deps.now())
	if err := transcript.WriteCompact(stdout, doc); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	if opts.OutputPath != "" {
		if err := transcript.WriteFile(opts.OutputPath, doc); err != nil {
			return fmt.Errorf("save transcript: %w", err)
		}
		logger.Info("Transcript saved to: " + opts.OutputPath)
	}
	return nil
}
