package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Index: 0},
			{CodecType: "Video", Index: 1},
			{CodecType: "video", Index: 2},
		},
		Format: Format{
			Duration: "123.45",
		},
	}
	stream, ok := result.VideoStream()
	if !ok || stream.Index != 1 {
		t.Fatalf("expected first video stream, got %+v (ok=%v)", stream, ok)
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
}

func TestInspectParsesStubOutput(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho '{\"streams\":[{\"index\":0,\"codec_type\":\"video\",\"avg_frame_rate\":\"25/1\"}],\"format\":{\"duration\":\"3.0\"}}'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	result, err := Inspect(context.Background(), stub, "clip.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	stream, ok := result.VideoStream()
	if !ok || stream.FrameRate() != 25 {
		t.Fatalf("unexpected stream: %+v", stream)
	}
	if result.DurationSeconds() != 3 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestInspectFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'clip.mp4: No such file' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Inspect(context.Background(), stub, "clip.mp4"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
}

func TestVideoStreamAndFrameRate(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "video", AvgFrameRate: "30000/1001", RFrameRate: "30/1"},
		},
	}
	stream, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected video stream")
	}
	if got := stream.FrameRate(); math.Abs(got-29.97002997) > 1e-6 {
		t.Fatalf("unexpected frame rate: %v", got)
	}
}

func TestFrameRateFallbacks(t *testing.T) {
	tests := []struct {
		name string
		s    Stream
		want float64
	}{
		{"avg zero falls back", Stream{AvgFrameRate: "0/0", RFrameRate: "25/1"}, 25},
		{"plain number", Stream{AvgFrameRate: "24"}, 24},
		{"both unusable", Stream{AvgFrameRate: "0/0", RFrameRate: "bad"}, 0},
		{"empty", Stream{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.FrameRate(); got != tt.want {
				t.Fatalf("FrameRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVideoStreamMissing(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}}
	if _, ok := result.VideoStream(); ok {
		t.Fatal("expected no video stream")
	}
}
