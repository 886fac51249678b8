package fileutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EncodeJSON writes v to w as JSON followed by a newline. Compact output has no
// whitespace between tokens; indented output uses two spaces. HTML escaping is
// disabled so text passes through unchanged.
func EncodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteJSONFile writes v as indented JSON to path, replacing any existing file.
func WriteJSONFile(path string, v any) error {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, v, true); err != nil {
		return err
	}
	return WriteFileAtomic(path, &buf, 0o644)
}

// WriteFileAtomic streams r into a temporary file beside path and renames it
// into place once fully written. The temporary file is removed on failure.
func WriteFileAtomic(path string, r io.Reader, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
