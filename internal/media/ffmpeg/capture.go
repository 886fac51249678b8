package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"codesnippet/internal/frames"
	"codesnippet/internal/media/ffprobe"
	"codesnippet/internal/services"
)

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Option configures an Opener.
type Option func(*Opener)

// WithRunner overrides command execution (for testing).
func WithRunner(run Runner) Option {
	return func(o *Opener) {
		if run != nil {
			o.run = run
		}
	}
}

// WithProbe overrides ffprobe inspection (for testing).
func WithProbe(probe ProbeFunc) Option {
	return func(o *Opener) {
		if probe != nil {
			o.probe = probe
		}
	}
}

// Opener opens videos for frame-accurate sampling.
type Opener struct {
	ffmpeg  string
	ffprobe string
	run     Runner
	probe   ProbeFunc
}

var _ frames.Opener = (*Opener)(nil)

// NewOpener returns an Opener using the given binaries; empty names fall back
// to "ffmpeg" and "ffprobe" on PATH.
func NewOpener(ffmpegBinary, ffprobeBinary string, opts ...Option) *Opener {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	o := &Opener{
		ffmpeg:  ffmpegBinary,
		ffprobe: ffprobeBinary,
		run:     runCommand,
		probe:   ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open probes path and returns a Capture positioned on frame 0.
func (o *Opener) Open(ctx context.Context, path string) (frames.Capture, error) {
	result, err := o.probe(ctx, o.ffprobe, path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "open", path, err)
	}
	stream, ok := result.VideoStream()
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "ffmpeg", "open", "no video stream in "+path, nil)
	}
	return &Capture{
		path:     path,
		binary:   o.ffmpeg,
		fps:      stream.FrameRate(),
		duration: result.DurationSeconds(),
		run:      o.run,
	}, nil
}

// Capture decodes frames from one video file.
type Capture struct {
	path     string
	binary   string
	fps      float64
	duration float64
	pos      float64
	closed   bool
	run      Runner
}

var _ frames.Capture = (*Capture)(nil)

// FPS reports the stream frame rate, 0 when unknown.
func (c *Capture) FPS() float64 { return c.fps }

// Seek moves the decode position to a frame index.
func (c *Capture) Seek(frame float64) {
	if frame < 0 {
		frame = 0
	}
	c.pos = frame
}

// Read decodes the frame at the current position and advances by one frame.
// It returns io.EOF once the position is past the end of the stream.
func (c *Capture) Read(ctx context.Context) (image.Image, error) {
	if c.closed {
		return nil, errors.New("ffmpeg capture: read after close")
	}
	if c.fps <= 0 {
		return nil, fmt.Errorf("ffmpeg capture: invalid frame rate %v", c.fps)
	}
	seconds := c.pos / c.fps
	if c.duration > 0 && seconds >= c.duration {
		return nil, io.EOF
	}

	out, err := c.run(ctx, c.binary, c.frameArgs(seconds)...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "decode", c.path, err)
	}
	if len(out) == 0 {
		return nil, io.EOF
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("ffmpeg capture: decode frame: %w", err)
	}
	c.pos++
	return img, nil
}

// Close releases the capture. ffmpeg runs per frame, so nothing stays open.
func (c *Capture) Close() error {
	c.closed = true
	return nil
}

func (c *Capture) frameArgs(seconds float64) []string {
	return []string{
		"-v", "error",
		"-nostdin",
		"-ss", strconv.FormatFloat(seconds, 'f', 6, 64),
		"-i", c.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
