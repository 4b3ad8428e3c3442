// Package output handles file naming and writing for exported books.
// File names are derived from the work title (e.g. Tales_of_Unrest.epub).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Writer writes rendered books to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data as <OutputDir>/<title><ext> and returns the path.
func (w *Writer) Write(title string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, Filename(title)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename turns a wiki title into a flat file name. Subpage separators
// and characters that are unsafe on common filesystems become underscores.
func Filename(title string) string {
	var b strings.Builder
	for _, ch := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(ch), unicode.IsDigit(ch), strings.ContainsRune("-_.,()'", ch):
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "._")
	if name == "" {
		return "book"
	}
	return name
}
