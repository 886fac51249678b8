package frames

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"codesnippet/internal/fileutil"
	"codesnippet/internal/logging"
	"codesnippet/internal/services"
)

// ErrEngineUnavailable marks a failed OCR engine probe.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// Capture is an open video positioned on a frame index.
type Capture interface {
	// FPS reports the stream frame rate.
	FPS() float64
	// Read decodes the frame at the current position and advances by one
	// frame. It returns io.EOF past the end of the stream.
	Read(ctx context.Context) (image.Image, error)
	// Seek moves the decode position to a frame index.
	Seek(frame float64)
	Close() error
}

// Opener opens videos for sampling.
type Opener interface {
	Open(ctx context.Context, path string) (Capture, error)
}

// OCR recognizes text in image files.
type OCR interface {
	Version(ctx context.Context) (string, error)
	ImageToString(ctx context.Context, imagePath string) (string, error)
}

// Options tunes an Extractor.
type Options struct {
	// Remediation is logged when the OCR engine probe fails.
	Remediation string
	// JPEGQuality is passed to the JPEG encoder; 0 means 95.
	JPEGQuality int
	Logger      *slog.Logger
}

// Extractor samples videos and recognizes text on each sampled frame.
type Extractor struct {
	opener      Opener
	ocr         OCR
	remediation string
	quality     int
	logger      *slog.Logger
}

// NewExtractor wires an Extractor from its collaborators.
func NewExtractor(opener Opener, ocr OCR, opts Options) *Extractor {
	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = 95
	}
	return &Extractor{
		opener:      opener,
		ocr:         ocr,
		remediation: opts.Remediation,
		quality:     quality,
		logger:      logging.NewComponentLogger(opts.Logger, "frames"),
	}
}

// CheckEngine probes the OCR engine. On failure it logs the remediation text
// and returns an error wrapping ErrEngineUnavailable.
func (e *Extractor) CheckEngine(ctx context.Context) (string, error) {
	version, err := e.ocr.Version(ctx)
	if err != nil {
		msg := strings.TrimRight(e.remediation, "\n")
		if msg == "" {
			msg = "OCR engine is not installed or not reachable"
		}
		e.logger.Error(msg + "\n\nError details: " + err.Error())
		return "", fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return version, nil
}

// Run samples videoPath once per second into outputDir and returns one Record
// per frame that was saved and recognized. An unavailable OCR engine or an
// unopenable video yields an empty result and a nil error.
func (e *Extractor) Run(ctx context.Context, videoPath, outputDir string) ([]Record, error) {
	records := make([]Record, 0)

	version, err := e.CheckEngine(ctx)
	if err != nil {
		return records, nil
	}
	e.logger.Debug("ocr engine ready", logging.String("version", version))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	capture, err := e.opener.Open(ctx, videoPath)
	if err != nil {
		e.logger.Error("Could not open video file",
			logging.String("path", videoPath),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err),
		)
		return records, nil
	}
	defer capture.Close()

	fps := capture.FPS()
	if fps <= 0 {
		return nil, fmt.Errorf("video %s: invalid frame rate %v", videoPath, fps)
	}

	counter := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := capture.Read(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				e.logger.Debug("frame decode stopped", logging.Error(err))
			}
			break
		}

		// The counter advances by one per sample while the decoder jumps a
		// full second, so timestamps are counter/fps rather than elapsed time.
		timestamp := float64(counter) / fps
		record, err := e.processFrame(ctx, img, timestamp, outputDir)
		if err != nil {
			e.logger.Error(fmt.Sprintf("Error processing frame at %ss: %v", formatSeconds(timestamp), err),
				logging.String(logging.FieldErrorKind, services.Kind(err)))
		} else {
			records = append(records, record)
		}

		counter++
		capture.Seek(float64(counter) * fps)
	}

	if err := fileutil.WriteJSONFile(filepath.Join(outputDir, DataFileName), records); err != nil {
		return nil, fmt.Errorf("write %s: %w", DataFileName, err)
	}
	e.logger.Info("Frame extraction completed", logging.Int("frames", len(records)))
	return records, nil
}

func (e *Extractor) processFrame(ctx context.Context, img image.Image, timestamp float64, outputDir string) (Record, error) {
	filename := FrameFilename(timestamp)
	framePath := filepath.Join(outputDir, filename)
	if err := writeJPEG(framePath, img, e.quality); err != nil {
		return Record{}, fmt.Errorf("save frame: %w", err)
	}

	text, err := e.ocr.ImageToString(ctx, framePath)
	if err != nil {
		return Record{}, fmt.Errorf("ocr: %w", err)
	}

	return Record{
		Filename:  filename,
		Timestamp: timestamp,
		HasCode:   HasCode(text),
		Text:      strings.TrimSpace(text),
	}, nil
}

func writeJPEG(path string, img image.Image, quality int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
