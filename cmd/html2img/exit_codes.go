package main

import (
	"errors"
	"os"

	"github.com/alnah/go-html2img"
	"github.com/alnah/go-html2img/internal/config"
)

// Exit codes for the html2img CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every input converted
	ExitGeneral = 1 // Partial failure, cancellation or unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Input not found, permission denied
	ExitBrowser = 4 // No browser could be acquired
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, html2img.ErrDriverAcquisition) {
		return ExitBrowser
	}

	// Batch ran but not everything converted (exit 1)
	if errors.Is(err, ErrPartialFailure) || errors.Is(err, ErrCanceled) {
		return ExitGeneral
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidEnv) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, html2img.ErrInvalidDimension) ||
		errors.Is(err, html2img.ErrInvalidFormat) ||
		errors.Is(err, html2img.ErrInvalidQuality) ||
		errors.Is(err, html2img.ErrInvalidBackend) ||
		errors.Is(err, html2img.ErrUnknownStrategy) ||
		errors.Is(err, html2img.ErrMarkdown) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, html2img.ErrNoJobs) {
		return ExitIO
	}

	return ExitGeneral
}
