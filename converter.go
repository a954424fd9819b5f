package html2img

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alnah/go-html2img/internal/logging"
)

// Converter is a conversion session: it acquires one browser per batch,
// renders every job through it in order and closes it when the batch ends.
// Create with NewConverter. A Converter holds no browser between calls and
// may be reused, but not from several goroutines at once.
type Converter struct {
	cfg          converterConfig
	strategies   []Strategy
	readiness    ReadinessPolicy
	logger       *slog.Logger
	orchestrator *Orchestrator
}

// NewConverter creates a Converter. Without WithStrategies the built-in
// chain (system Chrome, managed Chromium, system Edge) is used with the
// rod backend.
// Returns error if the backend, a strategy name, the Markdown style or the
// code theme is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)

	if c.strategies == nil {
		strategies, err := BuildStrategies(c.cfg.strategyOpts)
		if err != nil {
			return nil, err
		}
		c.strategies = strategies
	}

	sources, err := newSourcePreparer(c.cfg.markdownStyle, c.cfg.codeTheme)
	if err != nil {
		return nil, err
	}

	c.orchestrator = NewOrchestrator(NewRenderer(c.readiness, c.logger), c.logger)
	c.orchestrator.sources = sources
	c.orchestrator.timeout = c.cfg.timeout
	return c, nil
}

// Convert plans req into jobs and runs them. See ConvertJobs.
func (c *Converter) Convert(ctx context.Context, req Request, progress ProgressFunc) (BatchOutcome, error) {
	jobs, err := PlanJobs(req)
	if err != nil {
		return BatchOutcome{}, err
	}
	return c.ConvertJobs(ctx, jobs, progress)
}

// ConvertJobs validates every job, acquires a browser and runs the batch.
// The error is non-nil only for failures that prevent the batch from
// starting: invalid jobs or no browser (*AcquisitionError). Per-job failures
// are reported in the outcome. The browser is closed exactly once on every
// path, including panics and cancellation.
func (c *Converter) ConvertJobs(ctx context.Context, jobs []ConversionJob, progress ProgressFunc) (out BatchOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if len(jobs) == 0 {
		return BatchOutcome{}, ErrNoJobs
	}
	for i, job := range jobs {
		if err := job.Validate(); err != nil {
			return BatchOutcome{}, fmt.Errorf("job %d (%s): %w", i+1, job.Input, err)
		}
	}

	b, err := Acquire(ctx, c.logger, c.strategies...)
	if err != nil {
		return BatchOutcome{}, err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			c.logger.Warn("closing browser", slog.Any("error", cerr))
		}
	}()

	return c.orchestrator.Run(ctx, b, jobs, progress), nil
}

// Run is a batch started with Start.
type Run struct {
	done    chan struct{}
	cancel  context.CancelFunc
	outcome BatchOutcome
	err     error
}

// Start runs Convert in the background. Stop cancels it; the remaining jobs
// are then recorded as canceled and the browser is released.
func (c *Converter) Start(ctx context.Context, req Request, progress ProgressFunc) *Run {
	ctx, cancel := context.WithCancel(ctx)
	r := &Run{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(r.done)
		defer cancel()
		r.outcome, r.err = c.Convert(ctx, req, progress)
	}()
	return r
}

// Done is closed when the run has finished and its browser is closed.
func (r *Run) Done() <-chan struct{} { return r.done }

// Stop requests cancellation. It does not wait; use Wait.
func (r *Run) Stop() { r.cancel() }

// Wait blocks until the run finishes and returns its result.
func (r *Run) Wait() (BatchOutcome, error) {
	<-r.done
	return r.outcome, r.err
}
