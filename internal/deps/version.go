package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// VersionArgs lists the flag each known tool prints its version with.
var VersionArgs = map[string][]string{
	"ffmpeg":    {"-version"},
	"ffprobe":   {"-version"},
	"tesseract": {"--version"},
	"uvx":       {"--version"},
	"whisper":   {"--help"},
}

// ProbeVersion runs command with args and returns the first non-empty line
// of its combined output.
func ProbeVersion(ctx context.Context, command string, args ...string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("probe version: command not configured")
	}
	out, err := exec.CommandContext(ctx, command, args...).CombinedOutput() //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("probe %s: %w: %s", command, err, strings.TrimSpace(string(out)))
	}
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
	}
	return "", fmt.Errorf("probe %s: empty output", command)
}
