package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUnknownModel is returned when a model name is outside Models.
var ErrUnknownModel = errors.New("unknown model")

// ValidateModel reports whether name is one of the accepted model sizes.
func ValidateModel(name string) error {
	for _, candidate := range Models {
		if name == candidate {
			return nil
		}
	}
	return fmt.Errorf("%w %q (want one of %s)", ErrUnknownModel, name, strings.Join(Models, ", "))
}

// Service provides transcription through an external recognizer.
type Service struct {
	cfg           Config
	lookPath      func(file string) (string, error)
	commandRunner func(ctx context.Context, name string, args ...string) error
	binary        string
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Engine == "" {
		cfg.Engine = EngineWhisper
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Binary == "" {
		cfg.Binary = WhisperCommand
	}
	if cfg.UVXBinary == "" {
		cfg.UVXBinary = UVXCommand
	}
	return &Service{cfg: cfg, lookPath: exec.LookPath}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// WithLookPath overrides binary resolution (for testing).
func (s *Service) WithLookPath(lookPath func(file string) (string, error)) {
	s.lookPath = lookPath
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Engine returns the configured engine name for logging.
func (s *Service) Engine() string {
	return s.cfg.Engine
}

// Load validates the model selection and resolves the engine executable.
// Weights are fetched by the engine itself on first use, so a bad network or
// missing cache surfaces as a Transcribe error instead.
func (s *Service) Load(_ context.Context) error {
	if err := ValidateModel(s.cfg.Model); err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	command := s.cfg.Binary
	switch s.cfg.Engine {
	case EngineWhisper:
	case EngineWhisperX:
		command = s.cfg.UVXBinary
	default:
		return fmt.Errorf("load model: unsupported engine %q", s.cfg.Engine)
	}
	resolved, err := s.lookPath(command)
	if err != nil {
		return fmt.Errorf("load model %s: %s not found: %w", s.cfg.Model, command, err)
	}
	if s.cfg.ModelDir != "" {
		if info, err := os.Stat(s.cfg.ModelDir); err != nil || !info.IsDir() {
			return fmt.Errorf("load model %s: model directory %q unavailable", s.cfg.Model, s.cfg.ModelDir)
		}
	}
	s.binary = resolved
	return nil
}

// Transcribe runs the engine on source and returns its segments in
// chronological order. workDir receives the engine's JSON output.
func (s *Service) Transcribe(ctx context.Context, source, workDir string) ([]Segment, error) {
	if source == "" {
		return nil, errors.New("transcribe: source path required")
	}
	if s.binary == "" {
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
	}
	if workDir == "" {
		return nil, errors.New("transcribe: work directory required")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	var args []string
	if s.cfg.Engine == EngineWhisperX {
		args = s.buildWhisperXArgs(source, workDir)
	} else {
		args = s.buildWhisperArgs(source, workDir)
	}
	if err := s.run(ctx, s.binary, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", s.cfg.Engine, err)
	}

	segments, err := LoadSegments(filepath.Join(workDir, outputStem(source)+".json"))
	if err != nil {
		return nil, fmt.Errorf("%s: read output: %w", s.cfg.Engine, err)
	}
	return segments, nil
}

// outputStem names the engine's output file the way the engines do: the
// base name minus its last extension, where leading dots never start one.
func outputStem(source string) string {
	base := filepath.Base(source)
	rest := strings.TrimLeft(base, ".")
	return base[:len(base)-len(filepath.Ext(rest))]
}

// run executes a command, using the custom runner if set. Engine output is
// captured so nothing reaches the process stdout.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	if s.cfg.Engine == EngineWhisperX && os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		// Torch 2.6 defaults torch.load to weights_only, which WhisperX/pyannote checkpoints reject.
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildWhisperArgs constructs openai-whisper CLI arguments.
func (s *Service) buildWhisperArgs(source, outputDir string) []string {
	args := []string{
		source,
		"--model", s.cfg.Model,
		"--language", s.cfg.Language,
		"--task", "transcribe",
		"--fp16", "False",
		"--output_format", OutputJSON,
		"--output_dir", outputDir,
		"--verbose", "False",
	}
	if s.cfg.ModelDir != "" {
		args = append(args, "--model_dir", s.cfg.ModelDir)
	}
	if device := s.device(); device != "" {
		args = append(args, "--device", device)
	}
	return args
}

// buildWhisperXArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildWhisperXArgs(source, outputDir string) []string {
	args := make([]string, 0, 24)
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}
	args = append(args,
		"whisperx",
		source,
		"--model", s.cfg.Model,
		"--language", s.cfg.Language,
		"--output_dir", outputDir,
		"--output_format", OutputJSON,
		"--compute_type", ComputeFloat32,
	)
	if s.cfg.ModelDir != "" {
		args = append(args, "--model_dir", s.cfg.ModelDir)
	}
	device := s.device()
	if device == "" {
		device = CPUDevice
	}
	args = append(args, "--device", device)
	return args
}

func (s *Service) device() string {
	if s.cfg.CUDAEnabled {
		return CUDADevice
	}
	return s.cfg.Device
}

// Segment represents a transcribed segment from engine JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type enginePayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from an engine JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload enginePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}
	return payload.Segments, nil
}
