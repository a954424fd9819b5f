package html2img

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/alnah/go-html2img/internal/fileutil"
	"github.com/alnah/go-html2img/internal/logging"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+exec
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ProgressFunc is called once per job, in submission order, after the job
// has finished whether it succeeded or not. done is 1-based.
type ProgressFunc func(done, total int, item ItemResult)

// Request describes a batch by its inputs and shared output settings.
type Request struct {
	Inputs    []string
	OutputDir string // Empty writes each image next to its source
	Format    Format
	Width     int
	Height    int
	Quality   int // JPEG only; 0 selects DefaultJPEGQuality
}

// Validate checks the shared settings. It runs before any browser is started.
func (r Request) Validate() error {
	if len(r.Inputs) == 0 {
		return ErrNoJobs
	}
	if err := r.Format.Validate(); err != nil {
		return err
	}
	if err := ValidateDimensions(r.Width, r.Height); err != nil {
		return err
	}
	if r.Format == FormatJPEG && r.Quality != 0 {
		return ValidateQuality(r.Quality)
	}
	return nil
}

// PlanJobs expands a Request into jobs. Inputs that resolve to the same file
// are kept once, at their first position. Outputs are named {base}.png or
// {base}.jpg.
func PlanJobs(req Request) ([]ConversionJob, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quality := req.Quality
	if quality == 0 {
		quality = DefaultJPEGQuality
	}

	seen := make(map[string]bool, len(req.Inputs))
	jobs := make([]ConversionJob, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		key := input
		if abs, err := filepath.Abs(input); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		dir := req.OutputDir
		if dir == "" {
			dir = filepath.Dir(input)
		}
		jobs = append(jobs, ConversionJob{
			Input:   input,
			Output:  filepath.Join(dir, fileutil.BaseName(input)+req.Format.Ext()),
			Format:  req.Format,
			Width:   req.Width,
			Height:  req.Height,
			Quality: quality,
		})
	}
	return jobs, nil
}

// Orchestrator runs jobs one after another against a borrowed browser.
type Orchestrator struct {
	renderer *Renderer
	sources  *sourcePreparer
	logger   *slog.Logger
	timeout  time.Duration // Per-job budget, 0 = none
	newRunID func() string
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator rendering with r. Markdown inputs
// use the default style and code theme.
func NewOrchestrator(r *Renderer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		renderer: r,
		sources:  &sourcePreparer{},
		logger:   logging.WithComponent(logger, "batch"),
		newRunID: func() string { return ulid.Make().String() },
		now:      time.Now,
	}
}

// Run executes jobs strictly in order and never stops on a failed job.
// When ctx ends, the running job is interrupted and the remaining jobs are
// recorded as failed with the context error. They are still reported
// through progress, and Canceled is set. A job that fails for its own
// reason does not count as canceled.
func (o *Orchestrator) Run(ctx context.Context, b Browser, jobs []ConversionJob, progress ProgressFunc) BatchOutcome {
	out := BatchOutcome{
		RunID: o.newRunID(),
		Total: len(jobs),
		Items: make([]ItemResult, 0, len(jobs)),
	}
	log := logging.WithRun(o.logger, out.RunID)
	log.Info("batch started", slog.Int("jobs", out.Total))

	for i, job := range jobs {
		item := ItemResult{Index: i, Input: job.Input, Output: job.Output}

		if err := ctx.Err(); err != nil {
			item.Err = err
			out.Canceled = true
		} else {
			start := o.now()
			item.Err = o.runJob(ctx, b, job)
			item.Duration = o.now().Sub(start)
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(item.Err, ctxErr) {
				out.Canceled = true
			}
		}

		if item.Err == nil {
			out.Succeeded++
			log.Info("converted",
				slog.String("input", job.Input),
				slog.String("output", job.Output),
				slog.Duration("duration", item.Duration))
		} else if !out.Canceled {
			log.Error("conversion failed",
				slog.String("input", job.Input),
				slog.Any("error", item.Err))
		}

		out.Items = append(out.Items, item)
		if progress != nil {
			progress(i+1, out.Total, item)
		}
	}

	log.Info("batch finished",
		slog.Int("succeeded", out.Succeeded),
		slog.Int("failed", out.Failed()),
		slog.Bool("canceled", out.Canceled))
	return out
}

// runJob converts one input to its output file.
// Recovers from internal panics so the batch can move on.
func (o *Orchestrator) runJob(ctx context.Context, b Browser, job ConversionJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := job.Validate(); err != nil {
		return err
	}
	if !fileutil.FileExists(job.Input) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, job.Input)
	}
	if err := os.MkdirAll(filepath.Dir(job.Output), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryCreate, err)
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	source, cleanup, err := o.sources.Prepare(ctx, job.Input)
	if err != nil {
		return err
	}
	defer cleanup()

	res := o.renderer.Render(ctx, b, RenderRequest{
		Source: source,
		Input:  job.Input,
		Width:  job.Width,
		Height: job.Height,
		Format: job.Format,
	})
	if !res.Success {
		return res.Err
	}

	data, err := ConvertBitmap(res.Bitmap, job.Format, job.Quality)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(job.Output, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteImage, err)
	}
	return nil
}
