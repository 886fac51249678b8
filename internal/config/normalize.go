package config

import (
	"fmt"
	"os"
	"strings"

	"codesnippet/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTranscribe(); err != nil {
		return err
	}
	if err := c.normalizeOCR(); err != nil {
		return err
	}
	c.normalizeVideo()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscribe() error {
	c.Transcribe.Engine = strings.ToLower(strings.TrimSpace(c.Transcribe.Engine))
	if c.Transcribe.Engine == "" {
		c.Transcribe.Engine = defaultTranscribeEngine
	}
	c.Transcribe.Model = strings.ToLower(strings.TrimSpace(c.Transcribe.Model))
	if c.Transcribe.Model == "" {
		c.Transcribe.Model = defaultTranscribeModel
	}
	if lang := language.ToISO2(c.Transcribe.Language); lang != "" {
		c.Transcribe.Language = lang
	} else {
		c.Transcribe.Language = defaultTranscribeLanguage
	}
	c.Transcribe.Binary = strings.TrimSpace(c.Transcribe.Binary)
	if c.Transcribe.Binary == "" {
		c.Transcribe.Binary = defaultWhisperBinary
	}
	c.Transcribe.UVXBinary = strings.TrimSpace(c.Transcribe.UVXBinary)
	if c.Transcribe.UVXBinary == "" {
		c.Transcribe.UVXBinary = defaultUVXBinary
	}
	c.Transcribe.ModelDir = strings.TrimSpace(c.Transcribe.ModelDir)
	if c.Transcribe.ModelDir == "" {
		if value, ok := os.LookupEnv("WHISPER_MODEL_DIR"); ok {
			c.Transcribe.ModelDir = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Transcribe.ModelDir, err = expandPath(c.Transcribe.ModelDir); err != nil {
		return fmt.Errorf("transcribe.model_dir: %w", err)
	}
	c.Transcribe.Device = strings.ToLower(strings.TrimSpace(c.Transcribe.Device))
	return nil
}

func (c *Config) normalizeOCR() error {
	if value, ok := os.LookupEnv("TESSERACT_CMD"); ok && strings.TrimSpace(value) != "" {
		c.OCR.Binary = value
	}
	c.OCR.Binary = strings.TrimSpace(c.OCR.Binary)
	if c.OCR.Binary == "" {
		c.OCR.Binary = defaultTesseractBinary
	}
	c.OCR.Language = language.TesseractCode(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if value, ok := os.LookupEnv("TESSDATA_PREFIX"); ok && strings.TrimSpace(value) != "" {
		c.OCR.TessdataDir = value
	}
	var err error
	if c.OCR.TessdataDir, err = expandPath(strings.TrimSpace(c.OCR.TessdataDir)); err != nil {
		return fmt.Errorf("ocr.tessdata_dir: %w", err)
	}
	c.OCR.TessdataURL = strings.TrimRight(strings.TrimSpace(c.OCR.TessdataURL), "/")
	if c.OCR.TessdataURL == "" {
		c.OCR.TessdataURL = defaultTessdataURL
	}
	if strings.TrimSpace(c.OCR.Remediation) == "" {
		c.OCR.Remediation = DefaultRemediation
	}
	return nil
}

func (c *Config) normalizeVideo() {
	c.Video.FFmpegBinary = strings.TrimSpace(c.Video.FFmpegBinary)
	if c.Video.FFmpegBinary == "" {
		c.Video.FFmpegBinary = defaultFFmpegBinary
	}
	c.Video.FFprobeBinary = strings.TrimSpace(c.Video.FFprobeBinary)
	if c.Video.FFprobeBinary == "" {
		c.Video.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Video.JPEGQuality == 0 {
		c.Video.JPEGQuality = defaultJPEGQuality
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("CODESNIPPET_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "":
		c.Logging.Format = defaultLogFormat
	case "status", "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
