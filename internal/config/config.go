package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains scratch directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
}

// Transcribe contains configuration for the speech recognition engine.
type Transcribe struct {
	// Engine selects the recognizer: "whisper" or "whisperx".
	Engine string `toml:"engine"`
	// Model is the default model size when --model is not passed.
	Model    string `toml:"model"`
	Language string `toml:"language"`
	Binary   string `toml:"binary"`
	// UVXBinary runs WhisperX when Engine is "whisperx".
	UVXBinary   string `toml:"uvx_binary"`
	ModelDir    string `toml:"model_dir"`
	Device      string `toml:"device"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
}

// OCR contains configuration for the text recognition engine.
type OCR struct {
	Binary      string `toml:"binary"`
	Language    string `toml:"language"`
	TessdataDir string `toml:"tessdata_dir"`
	TessdataURL string `toml:"tessdata_url"`
	// Remediation is logged verbatim when the engine cannot be probed.
	Remediation string `toml:"remediation"`
}

// Video contains configuration for frame decoding.
type Video struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	JPEGQuality   int    `toml:"jpeg_quality"`
}

// Logging contains configuration for diagnostic output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the media tools.
//
// Configuration sections by subsystem:
//   - Paths: scratch directories
//   - Transcribe: whisper/WhisperX engine selection and model defaults
//   - OCR: tesseract binary, language data, and install guidance
//   - Video: ffmpeg/ffprobe binaries and JPEG output quality
//   - Logging: diagnostic format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Transcribe Transcribe `toml:"transcribe"`
	OCR        OCR        `toml:"ocr"`
	Video      Video      `toml:"video"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/codesnippet/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("codesnippet.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WorkDir returns the scratch directory engines write intermediate output to.
func (c *Config) WorkDir() string {
	if strings.TrimSpace(c.Paths.WorkDir) != "" {
		return c.Paths.WorkDir
	}
	return os.TempDir()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
