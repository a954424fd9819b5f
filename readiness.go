package html2img

import (
	"context"
	"time"
)

// Default settle intervals for FixedDelay.
const (
	DefaultLoadSettle   = 3 * time.Second
	DefaultScrollSettle = 1 * time.Second
	DefaultResizeSettle = 2 * time.Second
	DefaultEventQuiet   = 250 * time.Millisecond
)

// Phase identifies the point in the render protocol that must settle.
type Phase int

const (
	PhaseLoad   Phase = iota // After navigation
	PhaseScroll              // After scrolling to the origin
	PhaseResize              // After growing the viewport to the content height
)

func (p Phase) String() string {
	switch p {
	case PhaseLoad:
		return "load"
	case PhaseScroll:
		return "scroll"
	case PhaseResize:
		return "resize"
	}
	return "unknown"
}

// ReadinessPolicy decides when a page is ready for the next render step.
type ReadinessPolicy interface {
	Settle(ctx context.Context, b Browser, phase Phase) error
}

// FixedDelay waits a fixed interval per phase regardless of page state.
// Zero durations do not wait.
type FixedDelay struct {
	Load   time.Duration
	Scroll time.Duration
	Resize time.Duration
}

// DefaultFixedDelay returns the 3s / 1s / 2s schedule.
func DefaultFixedDelay() *FixedDelay {
	return &FixedDelay{
		Load:   DefaultLoadSettle,
		Scroll: DefaultScrollSettle,
		Resize: DefaultResizeSettle,
	}
}

// Settle sleeps for the phase's interval or until ctx is done.
func (f *FixedDelay) Settle(ctx context.Context, _ Browser, phase Phase) error {
	var d time.Duration
	switch phase {
	case PhaseLoad:
		d = f.Load
	case PhaseScroll:
		d = f.Scroll
	case PhaseResize:
		d = f.Resize
	}
	return sleep(ctx, d)
}

// EventDriven waits for the browser's load signal after navigation, then a
// short quiet period in every phase to let layout and paint catch up.
type EventDriven struct {
	Quiet time.Duration
}

// Settle implements ReadinessPolicy.
func (e *EventDriven) Settle(ctx context.Context, b Browser, phase Phase) error {
	if phase == PhaseLoad {
		if err := b.WaitLoad(ctx); err != nil {
			return err
		}
	}
	return sleep(ctx, e.Quiet)
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Compile-time interface checks.
var (
	_ ReadinessPolicy = (*FixedDelay)(nil)
	_ ReadinessPolicy = (*EventDriven)(nil)
)
