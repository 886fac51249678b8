package config

const (
	defaultTranscribeEngine   = "whisper"
	defaultTranscribeModel    = "base"
	defaultTranscribeLanguage = "en"
	defaultWhisperBinary      = "whisper"
	defaultUVXBinary          = "uvx"
	defaultTranscribeDevice   = ""
	defaultTesseractBinary    = "tesseract"
	defaultOCRLanguage        = "eng"
	defaultTessdataURL        = "https://raw.githubusercontent.com/tesseract-ocr/tessdata_best/main"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultJPEGQuality        = 95
	defaultLogFormat          = "status"
	defaultLogLevel           = "info"
)

// DefaultRemediation is logged when the OCR engine version probe fails.
const DefaultRemediation = `
Tesseract OCR is not properly installed or configured. Please follow these steps:

1. Download Tesseract installer from: https://github.com/UB-Mannheim/tesseract/wiki
2. Run the installer and make sure to check 'Add to PATH' during installation
3. Default install location: C:\Program Files\Tesseract-OCR
4. Restart your terminal/IDE after installation
5. Run 'tesseract --version' to verify installation
`

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcribe: Transcribe{
			Engine:    defaultTranscribeEngine,
			Model:     defaultTranscribeModel,
			Language:  defaultTranscribeLanguage,
			Binary:    defaultWhisperBinary,
			UVXBinary: defaultUVXBinary,
			Device:    defaultTranscribeDevice,
		},
		OCR: OCR{
			Binary:      defaultTesseractBinary,
			Language:    defaultOCRLanguage,
			TessdataURL: defaultTessdataURL,
			Remediation: DefaultRemediation,
		},
		Video: Video{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			JPEGQuality:   defaultJPEGQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
