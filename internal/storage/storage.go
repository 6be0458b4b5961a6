// Package storage persists raw uploads to sanitized paths and cleans up
// derived page images once a document has been processed.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// Sanitize replaces every character outside [a-zA-Z0-9_.-] with an
// underscore, which also neutralizes path traversal in client-supplied
// filenames.
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// SaveUpload writes an uploaded file under dir with a sanitized name,
// prefixed by uid when given so concurrent uploads of the same filename do
// not collide. Returns the full path of the saved file.
func SaveUpload(dir, name string, r io.Reader, uid string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := Sanitize(name)
	if uid != "" {
		filename = uid + "_" + filename
	}
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return path, nil
}

// CleanupImages deletes the given derived image files. Missing files are
// ignored; a document must not fail its batch over leftover page images.
func CleanupImages(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		_ = os.Remove(p)
	}
}
