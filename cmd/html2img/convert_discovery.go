package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/alnah/go-html2img/internal/fileutil"
)

// ErrUnsupportedInput is returned for explicit files that are neither HTML
// nor Markdown.
var ErrUnsupportedInput = errors.New("input must have .html, .htm, .md or .markdown extension")

// discoverInputs expands paths into the files to convert, in order.
// Directories contribute their supported files sorted by name, without
// recursion. Explicit files are kept even when missing so the batch reports
// them as failed items.
func discoverInputs(paths []string) ([]string, error) {
	var inputs []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			if !isSupportedInput(p) {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, p)
			}
			inputs = append(inputs, p)
			continue
		}

		files, err := scanDir(p)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, files...)
	}
	return inputs, nil
}

// scanDir lists the supported files directly inside dir.
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isSupportedInput(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// isSupportedInput reports whether path has an HTML or Markdown extension.
func isSupportedInput(path string) bool {
	return fileutil.IsHTML(path) || fileutil.IsMarkdown(path)
}
