package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codesnippet/internal/config"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRequirementsPerTool(t *testing.T) {
	cfg := config.Default()

	names := func(tool Tool) []string {
		var out []string
		for _, req := range Requirements(&cfg, tool) {
			out = append(out, req.Name)
		}
		return out
	}

	if got := strings.Join(names(ToolFrameExtractor), ","); got != "FFmpeg,FFprobe,Tesseract" {
		t.Fatalf("unexpected frame-extractor requirements %q", got)
	}
	if got := strings.Join(names(ToolTranscribe), ","); got != "Whisper,FFmpeg (audio)" {
		t.Fatalf("unexpected transcribe requirements %q", got)
	}

	cfg.Transcribe.Engine = "whisperx"
	if got := names(ToolTranscribe); got[0] != "uvx" {
		t.Fatalf("expected uvx for whisperx engine, got %v", got)
	}
	if got := strings.Join(names(ToolAll), ","); got != "FFmpeg,FFprobe,Tesseract,uvx" {
		t.Fatalf("unexpected requirements for all tools %q", got)
	}
}

func TestCheckSystemDepsUsesConfiguredBinaries(t *testing.T) {
	binDir := t.TempDir()
	cfg := config.Default()
	cfg.Video.FFmpegBinary = writeStub(t, binDir, "ffmpeg", "exit 0\n")
	cfg.Video.FFprobeBinary = filepath.Join(binDir, "missing-ffprobe")
	cfg.OCR.Binary = writeStub(t, binDir, "tesseract", "exit 0\n")

	statuses := CheckSystemDeps(&cfg, ToolFrameExtractor)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[1].Available || !statuses[2].Available {
		t.Fatalf("unexpected availability %+v", statuses)
	}
	if CheckSystemDeps(nil, ToolAll) != nil {
		t.Fatal("expected nil for nil config")
	}
}

func TestCheckOCR(t *testing.T) {
	binDir := t.TempDir()
	cfg := config.Default()
	cfg.OCR.Binary = writeStub(t, binDir, "tesseract", "echo 'tesseract 5.3.4'\n")

	result := CheckOCR(context.Background(), &cfg)
	if !result.Passed || result.Detail != "tesseract 5.3.4" {
		t.Fatalf("unexpected result %+v", result)
	}

	cfg.OCR.Binary = filepath.Join(binDir, "absent")
	if result := CheckOCR(context.Background(), &cfg); result.Passed {
		t.Fatalf("expected failure for missing binary, got %+v", result)
	}
}

func TestCheckTessdata(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.OCR.TessdataDir = dir
	cfg.OCR.Language = "eng+deu"
	if err := os.WriteFile(filepath.Join(dir, "eng.traineddata"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := CheckTessdata(&cfg)
	if result.Passed || !strings.Contains(result.Detail, "missing: deu") {
		t.Fatalf("expected missing deu, got %+v", result)
	}

	if err := os.WriteFile(filepath.Join(dir, "deu.traineddata"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckTessdata(&cfg); !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
}

func TestCheckTessdataSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/eng.traineddata" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if result := CheckTessdataSource(context.Background(), srv.URL+"/", "eng+deu"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	result := CheckTessdataSource(context.Background(), srv.URL, "xyz")
	if result.Passed || !strings.Contains(result.Detail, "xyz.traineddata not found") {
		t.Fatalf("unexpected result %+v", result)
	}
	if result := CheckTessdataSource(context.Background(), " ", "eng"); result.Passed || result.Detail != "missing url" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil, got %v", results)
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.OCR.Binary = filepath.Join(t.TempDir(), "absent")

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}
	if results[0].Name != "Work directory" || !results[0].Passed {
		t.Fatalf("unexpected work dir result %+v", results[0])
	}
	if results[1].Name != "OCR engine" || results[1].Passed {
		t.Fatalf("unexpected OCR result %+v", results[1])
	}
}

func TestRunAll_IncludesTessdataAndModelDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.OCR.TessdataDir = t.TempDir()
	cfg.Transcribe.ModelDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[2].Name != "Tessdata" || results[3].Name != "Model directory" {
		t.Fatalf("unexpected result order %+v", results)
	}
}
