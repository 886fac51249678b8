// Package ffmpeg decodes individual video frames through the ffmpeg CLI.
//
// Opener probes a file with ffprobe to find its video stream and frame rate,
// then hands out a Capture that decodes one frame per Read at a frame-index
// position, mirroring a seekable frame grabber.
package ffmpeg
