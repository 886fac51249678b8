package tesseract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"codesnippet/internal/fileutil"
	"codesnippet/internal/services"
)

// ErrNoTessdataDir is returned when no traineddata directory is configured.
var ErrNoTessdataDir = errors.New("no tessdata directory configured")

// HTTPDoer describes the HTTP client used to fetch traineddata.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TraineddataPath returns the file tesseract loads for one language.
func TraineddataPath(dir, lang string) string {
	return filepath.Join(dir, lang+".traineddata")
}

// MissingLanguages lists the "+"-joined languages without a traineddata file
// in dir.
func MissingLanguages(dir, languages string) []string {
	var missing []string
	for _, lang := range splitLanguages(languages) {
		if info, err := os.Stat(TraineddataPath(dir, lang)); err != nil || info.IsDir() {
			missing = append(missing, lang)
		}
	}
	return missing
}

// EnsureLanguageData downloads every missing traineddata file for languages
// from baseURL into dir and returns the paths written. Existing files are left
// alone. Each file is written atomically.
func EnsureLanguageData(ctx context.Context, client HTTPDoer, dir, languages, baseURL string) ([]string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tessdata", "fetch", "", ErrNoTessdataDir)
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tessdata", "fetch", "download url required", nil)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create tessdata dir: %w", err)
	}

	var written []string
	for _, lang := range MissingLanguages(dir, languages) {
		dest := TraineddataPath(dir, lang)
		if err := download(ctx, client, baseURL+"/"+lang+".traineddata", dest); err != nil {
			return written, services.Wrap(services.ErrExternalTool, "tessdata", "fetch", lang, err)
		}
		written = append(written, dest)
	}
	return written, nil
}

func download(ctx context.Context, client HTTPDoer, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned %d", url, resp.StatusCode)
	}
	return fileutil.WriteFileAtomic(dest, resp.Body, 0o644)
}

func splitLanguages(languages string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(languages, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}
