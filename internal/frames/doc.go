// Package frames samples a video at one frame per second, recognizes the
// text on each sampled frame, and flags frames that look like source code.
//
// The Extractor owns the sampling loop and its three failure tiers:
//   - engine or video unavailable: logged, empty result, no error
//   - a single frame fails to save or OCR: logged, frame skipped
//   - anything else: returned to the caller
//
// Decoding and recognition sit behind the Opener/Capture and OCR interfaces;
// internal/media/ffmpeg and internal/services/tesseract provide the
// production implementations.
package frames
