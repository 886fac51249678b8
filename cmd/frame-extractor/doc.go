// Command frame-extractor samples a video about once per second, saves each
// sampled frame as a JPEG, and recognizes its text.
//
// Usage:
//
//	frame-extractor <video_path> <output_dir>
//
// The frame records are printed to stdout as a JSON array and also written,
// indented, to <output_dir>/frames_data.json. A missing OCR engine or an
// unreadable video is reported on stderr and yields "[]" with exit status 0.
package main
