// Package assets provides the stylesheets applied to Markdown inputs before
// they are rendered. Styles are embedded at compile time; a CSS file on disk
// can be used instead by passing its path.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrAssetRead        = errors.New("failed to read asset")
)

// StyleLoader loads a CSS style by name (without .css extension).
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// EmbeddedLoader loads styles compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// Names lists the embedded style names in sorted order.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// ResolveStyle returns CSS for nameOrPath: empty selects the default style,
// a value ending in .css or containing a path separator is read from disk,
// anything else is looked up by name through loader.
func ResolveStyle(loader StyleLoader, nameOrPath string) (string, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultStyleName
	}

	if strings.HasSuffix(strings.ToLower(nameOrPath), ".css") || strings.ContainsAny(nameOrPath, "/\\") {
		content, err := os.ReadFile(nameOrPath) // #nosec G304 -- stylesheet path is user-provided
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrStyleNotFound, nameOrPath)
			}
			return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		return string(content), nil
	}

	return loader.LoadStyle(nameOrPath)
}

// Compile-time interface check.
var _ StyleLoader = (*EmbeddedLoader)(nil)
