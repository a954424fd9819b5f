package html2img

import (
	"fmt"
	"strings"
	"time"
)

// Format is an output image encoding.
type Format string

// Supported output formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// Dimension bounds in CSS pixels, inclusive.
const (
	MinDimension  = 1
	MaxDimension  = 10000
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// JPEG quality bounds, inclusive.
const (
	MinJPEGQuality     = 1
	MaxJPEGQuality     = 100
	DefaultJPEGQuality = 95
)

// ParseFormat accepts png, jpeg and jpg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q (must be png or jpeg)", ErrInvalidFormat, s)
}

// Ext returns the file extension written for f, including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// Validate reports whether f is a supported format.
func (f Format) Validate() error {
	switch f {
	case FormatPNG, FormatJPEG:
		return nil
	}
	return fmt.Errorf("%w: %q (must be png or jpeg)", ErrInvalidFormat, string(f))
}

// ValidateDimensions checks width and height are within [MinDimension, MaxDimension].
func ValidateDimensions(width, height int) error {
	if width < MinDimension || width > MaxDimension {
		return fmt.Errorf("%w: width %d (must be between %d and %d)", ErrInvalidDimension, width, MinDimension, MaxDimension)
	}
	if height < MinDimension || height > MaxDimension {
		return fmt.Errorf("%w: height %d (must be between %d and %d)", ErrInvalidDimension, height, MinDimension, MaxDimension)
	}
	return nil
}

// ValidateQuality checks q is within [MinJPEGQuality, MaxJPEGQuality].
func ValidateQuality(q int) error {
	if q < MinJPEGQuality || q > MaxJPEGQuality {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidQuality, q, MinJPEGQuality, MaxJPEGQuality)
	}
	return nil
}

// RenderRequest describes one document to render.
type RenderRequest struct {
	Source string // Local HTML file
	Input  string // File named in logs when Source is a temporary rendition
	Width  int
	Height int
	Format Format
}

// Validate checks the request before any browser call is made.
func (r RenderRequest) Validate() error {
	if r.Source == "" {
		return ErrEmptySource
	}
	if err := ValidateDimensions(r.Width, r.Height); err != nil {
		return err
	}
	return r.Format.Validate()
}

// RenderResult is the outcome of rendering one document.
// Bitmap is always PNG-encoded, whatever the requested output format.
type RenderResult struct {
	Source         string
	Bitmap         []byte
	Width          int
	Height         int  // Height of the captured viewport
	ContentHeight  int  // Measured document height, or the requested height on fallback
	HeightMeasured bool // False when ContentHeight is the fallback value
	Success        bool
	Err            error
}

// ConversionJob is one input file bound to its output path and settings.
type ConversionJob struct {
	Input   string
	Output  string
	Format  Format
	Width   int
	Height  int
	Quality int // JPEG only; 0 selects DefaultJPEGQuality
}

// Validate checks the job's settings.
func (j ConversionJob) Validate() error {
	if j.Input == "" {
		return ErrEmptySource
	}
	if j.Output == "" {
		return ErrEmptyOutput
	}
	if err := j.Format.Validate(); err != nil {
		return err
	}
	if err := ValidateDimensions(j.Width, j.Height); err != nil {
		return err
	}
	if j.Format == FormatJPEG && j.Quality != 0 {
		return ValidateQuality(j.Quality)
	}
	return nil
}

// ItemResult is the outcome of one job in a batch.
type ItemResult struct {
	Index    int // Position in submission order, zero-based
	Input    string
	Output   string
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the item produced its output file.
func (r ItemResult) Succeeded() bool {
	return r.Err == nil
}

// BatchOutcome summarizes a batch. Items are in submission order.
type BatchOutcome struct {
	RunID     string
	Total     int
	Succeeded int
	Items     []ItemResult
	Canceled  bool // Context ended before every job ran
}

// Failed returns the number of items that did not succeed.
func (o BatchOutcome) Failed() int {
	return o.Total - o.Succeeded
}

// AllSucceeded reports whether every job in the batch succeeded.
func (o BatchOutcome) AllSucceeded() bool {
	return o.Succeeded == o.Total
}
