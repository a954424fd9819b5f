// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-html2img/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a common CI provider variable is set.
func InCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForDriverAcquisition returns hints for the case where no browser strategy
// could start a browser.
func ForDriverAcquisition() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv("HTML2IMG_NO_SANDBOX") != "1" {
		hints = append(hints, "set HTML2IMG_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("HTML2IMG_BROWSER_BIN") == "" && os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "install Chrome, Chromium or Edge, or set HTML2IMG_BROWSER_BIN")
	}
	hints = append(hints, "the managed Chromium download needs network access on first run")
	hints = append(hints, "run 'html2img doctor' to see which browsers were found")

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the per-document budget.
func ForTimeout() string {
	return format("for heavy pages, raise --timeout or browser.timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-html2img") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoInputs returns a hint for runs that found nothing to convert.
func ForNoInputs() string {
	return format("directories are scanned for .html, .htm, .md and .markdown files (not recursive)")
}

// ForStyleNotFound returns hints for unknown Markdown styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
