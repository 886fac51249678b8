// Command transcribe converts an audio file into a timed transcript.
//
// Usage:
//
//	transcribe <audio_path> [--model tiny|base|small|medium|large] [--output PATH]
//
// The transcript is printed to stdout as a single line of JSON. Progress is
// reported on stderr as "Status: ..." lines and failures as "Error: ..." with
// exit status 1. With --output the transcript is also saved, indented, to
// PATH.
package main
