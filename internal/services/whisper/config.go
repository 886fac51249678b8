package whisper

// Config captures runtime settings for transcription.
type Config struct {
	// Engine selects the recognizer: EngineWhisper or EngineWhisperX.
	Engine string
	// Model is one of Models.
	Model string
	// Language is the ISO 639-1 code the engine is forced to.
	Language string
	// Binary is the openai-whisper executable.
	Binary string
	// UVXBinary launches WhisperX.
	UVXBinary string
	// ModelDir holds downloaded weights; empty uses the engine default.
	ModelDir string
	// Device forces "cpu" or "cuda"; empty lets the engine decide.
	Device      string
	CUDAEnabled bool
}

// Transcription defaults and engine constants.
const (
	DefaultModel    = "base"
	DefaultLanguage = "en"

	EngineWhisper  = "whisper"
	EngineWhisperX = "whisperx"

	WhisperCommand = "whisper"
	UVXCommand     = "uvx"

	PypiIndexURL   = "https://pypi.org/simple"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	ComputeFloat32 = "float32"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	OutputJSON     = "json"
)

// Models lists the accepted model sizes, smallest first.
var Models = []string{"tiny", "base", "small", "medium", "large"}
