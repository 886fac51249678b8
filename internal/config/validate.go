package config

import (
	"errors"
	"fmt"
	"strings"

	"codesnippet/internal/services/whisper"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscribe(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscribe() error {
	switch c.Transcribe.Engine {
	case "whisper", "whisperx":
	default:
		return fmt.Errorf("transcribe.engine must be whisper or whisperx, got %q", c.Transcribe.Engine)
	}
	if err := whisper.ValidateModel(c.Transcribe.Model); err != nil {
		return fmt.Errorf("transcribe.model: %w", err)
	}
	switch c.Transcribe.Device {
	case "", "cpu", "cuda":
	default:
		return fmt.Errorf("transcribe.device must be cpu or cuda, got %q", c.Transcribe.Device)
	}
	if c.Transcribe.CUDAEnabled && c.Transcribe.Device == "cpu" {
		return errors.New("transcribe.cuda_enabled conflicts with transcribe.device = \"cpu\"")
	}
	return nil
}

func (c *Config) validateOCR() error {
	if strings.ContainsAny(c.OCR.Language, " \t/") {
		return fmt.Errorf("ocr.language contains invalid characters: %q", c.OCR.Language)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.JPEGQuality < 1 || c.Video.JPEGQuality > 100 {
		return fmt.Errorf("video.jpeg_quality must be between 1 and 100, got %d", c.Video.JPEGQuality)
	}
	return nil
}
