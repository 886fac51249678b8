// Package deps checks that the external executables behind transcription,
// frame decoding, and OCR are installed, and probes their versions.
package deps
