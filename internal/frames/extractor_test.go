package frames

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codesnippet/internal/logging"
	"codesnippet/internal/services"
)

type fakeCapture struct {
	fps    float64
	total  int
	pos    float64
	seeks  []float64
	closed bool
}

func (c *fakeCapture) FPS() float64 { return c.fps }

func (c *fakeCapture) Read(context.Context) (image.Image, error) {
	if int(c.pos) >= c.total {
		return nil, io.EOF
	}
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	img.SetGray(0, 0, color.Gray{Y: uint8(c.pos)})
	c.pos++
	return img, nil
}

func (c *fakeCapture) Seek(frame float64) {
	c.seeks = append(c.seeks, frame)
	c.pos = frame
}

func (c *fakeCapture) Close() error {
	c.closed = true
	return nil
}

type fakeOpener struct {
	capture *fakeCapture
	err     error
}

func (o *fakeOpener) Open(context.Context, string) (Capture, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.capture, nil
}

type fakeOCR struct {
	versionErr error
	texts      map[string]string
	failures   map[string]error
	seen       []string
}

func (o *fakeOCR) Version(context.Context) (string, error) {
	if o.versionErr != nil {
		return "", o.versionErr
	}
	return "tesseract 5.3.4", nil
}

func (o *fakeOCR) ImageToString(_ context.Context, imagePath string) (string, error) {
	name := filepath.Base(imagePath)
	o.seen = append(o.seen, name)
	if _, err := os.Stat(imagePath); err != nil {
		return "", err
	}
	if err := o.failures[name]; err != nil {
		return "", err
	}
	return o.texts[name], nil
}

func newTestExtractor(t *testing.T, opener Opener, ocr OCR) (*Extractor, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "status", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New returned error: %v", err)
	}
	return NewExtractor(opener, ocr, Options{Remediation: "install tesseract", Logger: logger}), &buf
}

func TestRunSamplesFramesAndWritesDataset(t *testing.T) {
	capture := &fakeCapture{fps: 2, total: 5}
	ocr := &fakeOCR{texts: map[string]string{
		"frame-0.0.jpg": "  def foo(): return 1\n",
		"frame-0.5.jpg": "meeting notes for Q3",
		"frame-1.0.jpg": "",
	}}
	extractor, _ := newTestExtractor(t, &fakeOpener{capture: capture}, ocr)
	outDir := filepath.Join(t.TempDir(), "frames")

	records, err := extractor.Run(context.Background(), "talk.mp4", outDir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := []Record{
		{Filename: "frame-0.0.jpg", Timestamp: 0, HasCode: true, Text: "def foo(): return 1"},
		{Filename: "frame-0.5.jpg", Timestamp: 0.5, HasCode: false, Text: "meeting notes for Q3"},
		{Filename: "frame-1.0.jpg", Timestamp: 1.0, HasCode: false, Text: ""},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %+v", len(want), records)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, records[i], want[i])
		}
		if _, err := os.Stat(filepath.Join(outDir, want[i].Filename)); err != nil {
			t.Fatalf("expected jpeg for %s: %v", want[i].Filename, err)
		}
	}

	// Seeks jump one second of frames while timestamps advance by 1/fps.
	wantSeeks := []float64{2, 4, 6}
	if len(capture.seeks) != len(wantSeeks) {
		t.Fatalf("unexpected seeks %v", capture.seeks)
	}
	for i := range wantSeeks {
		if capture.seeks[i] != wantSeeks[i] {
			t.Fatalf("unexpected seeks %v", capture.seeks)
		}
	}
	if !capture.closed {
		t.Fatal("expected capture to be closed")
	}

	data, err := os.ReadFile(filepath.Join(outDir, DataFileName))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	var onDisk []Record
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("parse dataset: %v", err)
	}
	if len(onDisk) != len(records) {
		t.Fatalf("dataset has %d records, returned %d", len(onDisk), len(records))
	}
	for i := range records {
		if onDisk[i] != records[i] {
			t.Fatalf("dataset record %d = %+v, want %+v", i, onDisk[i], records[i])
		}
	}
	if !strings.Contains(string(data), "\n  {\n    \"filename\": \"frame-0.0.jpg\",") {
		t.Fatalf("expected two-space indented dataset, got %s", data)
	}
}

func TestRunEngineUnavailableSoftFails(t *testing.T) {
	ocr := &fakeOCR{versionErr: errors.New("executable file not found")}
	opener := &fakeOpener{err: errors.New("must not open")}
	extractor, logs := newTestExtractor(t, opener, ocr)
	outDir := filepath.Join(t.TempDir(), "out")

	records, err := extractor.Run(context.Background(), "talk.mp4", outDir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", records)
	}
	if _, err := os.Stat(outDir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output dir must not be created when the engine is missing: %v", err)
	}
	out := logs.String()
	if !strings.Contains(out, "Error: install tesseract") || !strings.Contains(out, "Error details: executable file not found") {
		t.Fatalf("expected remediation and details in logs, got %q", out)
	}
}

func TestCheckEngineWrapsSentinel(t *testing.T) {
	extractor, _ := newTestExtractor(t, &fakeOpener{}, &fakeOCR{versionErr: errors.New("boom")})
	if _, err := extractor.CheckEngine(context.Background()); !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestRunUnopenableVideoSoftFails(t *testing.T) {
	openErr := services.Wrap(services.ErrValidation, "ffmpeg", "open", "no video stream", nil)
	extractor, logs := newTestExtractor(t, &fakeOpener{err: openErr}, &fakeOCR{})
	outDir := filepath.Join(t.TempDir(), "out")

	records, err := extractor.Run(context.Background(), "broken.mp4", outDir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", records)
	}
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		t.Fatalf("expected output dir to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, DataFileName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dataset must not be written for an unopenable video: %v", err)
	}
	if !strings.Contains(logs.String(), "Error: Could not open video file") {
		t.Fatalf("expected open failure in logs, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "error_kind=validation") {
		t.Fatalf("expected error kind in logs, got %q", logs.String())
	}
}

func TestRunSkipsFramesThatFailOCR(t *testing.T) {
	capture := &fakeCapture{fps: 1, total: 3}
	ocr := &fakeOCR{
		texts:    map[string]string{"frame-0.0.jpg": "a", "frame-2.0.jpg": "c"},
		failures: map[string]error{"frame-1.0.jpg": services.Wrap(services.ErrExternalTool, "tesseract", "ocr", "", errors.New("page segmentation failed"))},
	}
	extractor, logs := newTestExtractor(t, &fakeOpener{capture: capture}, ocr)

	records, err := extractor.Run(context.Background(), "talk.mp4", t.TempDir())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(records) != 2 || records[0].Filename != "frame-0.0.jpg" || records[1].Filename != "frame-2.0.jpg" {
		t.Fatalf("unexpected records %+v", records)
	}
	if !strings.Contains(logs.String(), "Error: Error processing frame at 1.0s:") {
		t.Fatalf("expected per-frame error in logs, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "error_kind=external_tool") {
		t.Fatalf("expected error kind on skipped frame, got %q", logs.String())
	}
}

func TestRunFractionalFrameRate(t *testing.T) {
	capture := &fakeCapture{fps: 30, total: 61}
	extractor, _ := newTestExtractor(t, &fakeOpener{capture: capture}, &fakeOCR{})

	records, err := extractor.Run(context.Background(), "talk.mp4", t.TempDir())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(records))
	}
	if records[1].Timestamp != 1.0/30 || records[1].Filename != "frame-0.03333333333333333.jpg" {
		t.Fatalf("unexpected second record %+v", records[1])
	}
}

func TestRunEmptyVideoWritesEmptyDataset(t *testing.T) {
	extractor, _ := newTestExtractor(t, &fakeOpener{capture: &fakeCapture{fps: 24}}, &fakeOCR{})
	outDir := t.TempDir()

	records, err := extractor.Run(context.Background(), "empty.mp4", outDir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", records)
	}
	data, err := os.ReadFile(filepath.Join(outDir, DataFileName))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array dataset, got %q", data)
	}
}

func TestRunInvalidFrameRateIsFatal(t *testing.T) {
	extractor, _ := newTestExtractor(t, &fakeOpener{capture: &fakeCapture{fps: 0, total: 3}}, &fakeOCR{})
	if _, err := extractor.Run(context.Background(), "talk.mp4", t.TempDir()); err == nil {
		t.Fatal("expected error for zero frame rate")
	}
}

func TestRunObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	extractor, _ := newTestExtractor(t, &fakeOpener{capture: &fakeCapture{fps: 1, total: 3}}, &fakeOCR{})
	if _, err := extractor.Run(ctx, "talk.mp4", t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
