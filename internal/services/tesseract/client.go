package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"codesnippet/internal/services"
)

// Executor abstracts command execution for testability. It returns the
// command's stdout; stderr is folded into the error on failure.
type Executor interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTessdataDir points tesseract at a specific traineddata directory.
func WithTessdataDir(dir string) Option {
	return func(c *Client) {
		c.tessdataDir = strings.TrimSpace(dir)
	}
}

// Client wraps tesseract CLI interactions.
type Client struct {
	binary      string
	language    string
	tessdataDir string
	exec        Executor
}

// New constructs a tesseract client. language uses traineddata names such as
// "eng" or "eng+deu".
func New(binary, language string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, services.Wrap(services.ErrValidation, "tesseract", "new", "binary required", nil)
	}
	language = strings.TrimSpace(language)
	if language == "" {
		return nil, services.Wrap(services.ErrValidation, "tesseract", "new", "language required", nil)
	}
	client := &Client{
		binary:   binary,
		language: language,
		exec:     commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the configured executable.
func (c *Client) Binary() string { return c.binary }

// Language returns the configured traineddata selection.
func (c *Client) Language() string { return c.language }

// Version runs `tesseract --version` and returns the first output line.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.exec.Output(ctx, c.binary, []string{"--version"})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "tesseract", "version", "", err)
	}
	line := firstLine(string(out))
	if line == "" {
		return "", services.Wrap(services.ErrExternalTool, "tesseract", "version", "empty version output", nil)
	}
	return line, nil
}

// ImageToString recognizes text in imagePath and returns it untrimmed.
func (c *Client) ImageToString(ctx context.Context, imagePath string) (string, error) {
	if strings.TrimSpace(imagePath) == "" {
		return "", services.Wrap(services.ErrValidation, "tesseract", "ocr", "image path required", nil)
	}
	out, err := c.exec.Output(ctx, c.binary, c.recognizeArgs(imagePath))
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "tesseract", "ocr", imagePath, err)
	}
	return string(out), nil
}

func (c *Client) recognizeArgs(imagePath string) []string {
	args := []string{imagePath, "stdout", "-l", c.language}
	if c.tessdataDir != "" {
		args = append(args, "--tessdata-dir", c.tessdataDir)
	}
	return args
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type commandExecutor struct{}

func (commandExecutor) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", err, detail)
	}
	// Tesseract 3.x prints its version banner on stderr.
	if stdout.Len() == 0 && len(args) == 1 && args[0] == "--version" {
		return stderr.Bytes(), nil
	}
	return stdout.Bytes(), nil
}
