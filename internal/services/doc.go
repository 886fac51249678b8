// Package services defines shared utilities consumed by the external engine
// integrations.
//
// Structured error markers plus the Wrap helper tag failures from whisper,
// tesseract, and ffmpeg so the command layer can label them consistently in
// logs. Engine clients live in subpackages.
package services
