package html2img

import (
	"errors"
	"strings"
)

// Sentinel errors for library operations.
var (
	// ErrDriverAcquisition is fatal: no strategy produced a browser, so no
	// job in the batch can run.
	ErrDriverAcquisition = errors.New("no browser could be acquired")

	ErrSourceNotFound  = errors.New("source file not found")
	ErrViewport        = errors.New("failed to set viewport")
	ErrNavigate        = errors.New("failed to load page")
	ErrScroll          = errors.New("failed to scroll page")
	ErrCapture         = errors.New("failed to capture page")
	ErrConversion      = errors.New("image conversion failed")
	ErrDirectoryCreate = errors.New("failed to create output directory")
	ErrWriteImage      = errors.New("failed to write image")
	ErrMarkdown        = errors.New("failed to render markdown")
	ErrBrowserClosed   = errors.New("browser is closed")
	ErrBinaryNotFound  = errors.New("browser binary not found")

	// ErrHeightUnavailable is logged, never returned to callers: the
	// renderer falls back to the requested height.
	ErrHeightUnavailable = errors.New("content height unavailable")

	// Validation errors, reported before any rendering starts.
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrInvalidFormat    = errors.New("invalid image format")
	ErrInvalidQuality   = errors.New("invalid JPEG quality")
	ErrInvalidBackend   = errors.New("invalid browser backend")
	ErrUnknownStrategy  = errors.New("unknown acquisition strategy")
	ErrEmptySource      = errors.New("source path cannot be empty")
	ErrEmptyOutput      = errors.New("output path cannot be empty")
	ErrNoJobs           = errors.New("no input files")
)

// StrategyFailure records why one acquisition strategy did not yield a browser.
type StrategyFailure struct {
	Strategy string
	Err      error
}

// AcquisitionError aggregates every strategy failure from one Acquire call.
// It matches ErrDriverAcquisition and each underlying error with errors.Is.
type AcquisitionError struct {
	Failures []StrategyFailure
}

func (e *AcquisitionError) Error() string {
	if len(e.Failures) == 0 {
		return ErrDriverAcquisition.Error() + ": no strategies configured"
	}
	var b strings.Builder
	b.WriteString(ErrDriverAcquisition.Error())
	b.WriteString(": ")
	for i, f := range e.Failures {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Strategy)
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

func (e *AcquisitionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrDriverAcquisition)
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
