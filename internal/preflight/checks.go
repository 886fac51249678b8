package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"codesnippet/internal/config"
	"codesnippet/internal/deps"
	"codesnippet/internal/services/tesseract"
)

// Tool selects which utility's requirements CheckSystemDeps evaluates.
type Tool string

const (
	ToolAll            Tool = ""
	ToolTranscribe     Tool = "transcribe"
	ToolFrameExtractor Tool = "frame-extractor"
)

// Requirements lists the executables a tool needs under cfg.
func Requirements(cfg *config.Config, tool Tool) []deps.Requirement {
	var requirements []deps.Requirement
	if tool == ToolAll || tool == ToolFrameExtractor {
		requirements = append(requirements,
			deps.Requirement{
				Name:        "FFmpeg",
				Command:     cfg.Video.FFmpegBinary,
				Description: "Required for frame decoding",
			},
			deps.Requirement{
				Name:        "FFprobe",
				Command:     cfg.Video.FFprobeBinary,
				Description: "Required for video inspection",
			},
			deps.Requirement{
				Name:        "Tesseract",
				Command:     cfg.OCR.Binary,
				Description: "Required for frame OCR",
			},
		)
	}
	if tool == ToolAll || tool == ToolTranscribe {
		if cfg.Transcribe.Engine == "whisperx" {
			requirements = append(requirements, deps.Requirement{
				Name:        "uvx",
				Command:     cfg.Transcribe.UVXBinary,
				Description: "Required for WhisperX-driven transcription",
			})
		} else {
			requirements = append(requirements, deps.Requirement{
				Name:        "Whisper",
				Command:     cfg.Transcribe.Binary,
				Description: "Required for transcription",
			})
		}
		if tool == ToolTranscribe {
			requirements = append(requirements, deps.Requirement{
				Name:        "FFmpeg (audio)",
				Command:     cfg.Video.FFmpegBinary,
				Description: "Used by whisper to decode audio",
			})
		}
	}
	return requirements
}

// CheckSystemDeps evaluates the executables a tool needs. Both
// frame-extractor and the status command use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config, tool Tool) []deps.Status {
	if cfg == nil {
		return nil
	}
	return deps.CheckBinaries(Requirements(cfg, tool))
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOCR probes the tesseract version with a 10-second timeout.
func CheckOCR(ctx context.Context, cfg *config.Config) Result {
	const name = "OCR engine"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := tesseract.New(cfg.OCR.Binary, cfg.OCR.Language, tesseract.WithTessdataDir(cfg.OCR.TessdataDir))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	version, err := client.Version(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckTessdata reports whether every configured OCR language has a
// traineddata file in the configured tessdata directory.
func CheckTessdata(cfg *config.Config) Result {
	const name = "Tessdata"

	dir := cfg.OCR.TessdataDir
	if dir == "" {
		return Result{Name: name, Passed: true, Detail: "tesseract default location"}
	}
	missing := tesseract.MissingLanguages(dir, cfg.OCR.Language)
	if len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (missing: %s; run \"snippetctl tessdata fetch\")", dir, strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", dir, cfg.OCR.Language)}
}

// CheckTessdataSource verifies that the traineddata download location serves
// the first configured language.
func CheckTessdataSource(ctx context.Context, baseURL, languages string) Result {
	const name = "Tessdata source"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	lang, _, _ := strings.Cut(languages, "+")
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = "eng"
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, base+"/"+lang+".traineddata", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeProbeError(err)}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	case http.StatusNotFound:
		return Result{Name: name, Detail: fmt.Sprintf("%s.traineddata not found", lang)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%d)", resp.StatusCode)}
	}
}

// summarizeProbeError produces a human-readable summary for probe failures.
func summarizeProbeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (unreachable)"
	}
	return err.Error()
}
