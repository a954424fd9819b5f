package html2img

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/alnah/go-html2img/internal/fileutil"
	"github.com/alnah/go-html2img/internal/logging"
)

// Renderer turns one local HTML file into a PNG bitmap of the fully laid out
// page, growing the viewport when the content is taller than requested.
type Renderer struct {
	readiness ReadinessPolicy
	logger    *slog.Logger
}

// NewRenderer creates a Renderer. A nil policy selects DefaultFixedDelay and
// a nil logger discards output.
func NewRenderer(readiness ReadinessPolicy, logger *slog.Logger) *Renderer {
	if readiness == nil {
		readiness = DefaultFixedDelay()
	}
	return &Renderer{
		readiness: readiness,
		logger:    logging.WithComponent(logger, "renderer"),
	}
}

// Render runs the render protocol against b: viewport, navigate, settle,
// scroll to origin, measure, grow the viewport if needed, capture.
// It never returns an error directly; failures are reported in the result.
// Recovers from internal panics so one bad page cannot take down a batch.
func (r *Renderer) Render(ctx context.Context, b Browser, req RenderRequest) (res RenderResult) {
	res = RenderResult{Source: req.Source, Width: req.Width, Height: req.Height}
	name := req.Input
	if name == "" {
		name = req.Source
	}
	log := logging.WithFile(r.logger, name)

	defer func() {
		if p := recover(); p != nil {
			res.Bitmap = nil
			res.Success = false
			res.Err = fmt.Errorf("internal error: %v", p)
		}
		if res.Err != nil {
			log.Error("render failed", slog.Any("error", res.Err))
		}
	}()

	if err := req.Validate(); err != nil {
		res.Err = err
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	abs, err := filepath.Abs(req.Source)
	if err != nil || !fileutil.FileExists(abs) {
		res.Err = fmt.Errorf("%w: %s", ErrSourceNotFound, req.Source)
		return res
	}
	url, err := fileutil.FileURL(abs)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrNavigate, err)
		return res
	}

	if err := b.SetViewport(ctx, req.Width, req.Height); err != nil {
		res.Err = stepError(ctx, ErrViewport, err)
		return res
	}

	log.Debug("navigating", slog.String("url", url))
	if err := b.Navigate(ctx, url); err != nil {
		res.Err = stepError(ctx, ErrNavigate, err)
		return res
	}
	if err := r.settle(ctx, b, PhaseLoad); err != nil {
		res.Err = err
		return res
	}

	if err := b.ScrollTo(ctx, 0, 0); err != nil {
		res.Err = stepError(ctx, ErrScroll, err)
		return res
	}
	if err := r.settle(ctx, b, PhaseScroll); err != nil {
		res.Err = err
		return res
	}

	res.ContentHeight = req.Height
	measured, err := b.ContentHeight(ctx)
	switch {
	case err != nil:
		log.Warn("using requested height",
			slog.Any("error", fmt.Errorf("%w: %v", ErrHeightUnavailable, err)),
			slog.Int("height", req.Height))
	case measured < MinDimension:
		log.Warn("using requested height",
			slog.Any("error", fmt.Errorf("%w: measured %d", ErrHeightUnavailable, measured)),
			slog.Int("height", req.Height))
	default:
		res.ContentHeight = measured
		res.HeightMeasured = true
	}

	if res.ContentHeight > req.Height {
		target := res.ContentHeight
		if target > MaxDimension {
			log.Warn("content height clamped", slog.Int("measured", target), slog.Int("height", MaxDimension))
			target = MaxDimension
		}
		if err := b.SetViewport(ctx, req.Width, target); err != nil {
			res.Err = stepError(ctx, ErrViewport, err)
			return res
		}
		if err := r.settle(ctx, b, PhaseResize); err != nil {
			res.Err = err
			return res
		}
		res.Height = target
	}

	bitmap, err := b.Capture(ctx)
	if err != nil {
		res.Err = stepError(ctx, ErrCapture, err)
		return res
	}

	res.Bitmap = bitmap
	res.Success = true
	log.Debug("page captured", slog.Int("width", res.Width), slog.Int("height", res.Height))
	return res
}

// stepError wraps a failed browser call in sentinel. When the call failed
// because ctx ended, the context error is returned as is.
func stepError(ctx context.Context, sentinel, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// settle waits according to the readiness policy. Context errors pass
// through unwrapped so callers can match them.
func (r *Renderer) settle(ctx context.Context, b Browser, phase Phase) error {
	if err := r.readiness.Settle(ctx, b, phase); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: waiting for %s: %v", ErrNavigate, phase, err)
	}
	return nil
}
