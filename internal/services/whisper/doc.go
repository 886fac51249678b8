// Package whisper drives an external speech recognizer and returns its timed
// segments.
//
// This package handles:
//   - Model selection against the fixed tiny/base/small/medium/large vocabulary
//   - Engine invocation (openai-whisper CLI, or WhisperX through uvx)
//   - Segment parsing from the engine's JSON output
//
// Both engines are forced to a single language and run without half
// precision so they behave the same on hosts without GPU acceleration.
package whisper
