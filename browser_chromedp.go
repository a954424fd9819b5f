package html2img

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// chromedpBrowser implements Browser with chromedp over one exec allocator.
type chromedpBrowser struct {
	taskCtx     context.Context
	taskCancel  context.CancelFunc
	allocCancel context.CancelFunc

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// launchChromedp starts bin headless. The browser lives until Close, not
// until ctx ends; ctx only bounds the launch itself.
func launchChromedp(ctx context.Context, bin string, opts LaunchOptions) (*chromedpBrowser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(bin),
		chromedp.Headless,
		chromedp.Flag("force-device-scale-factor", "1"),
	)
	for _, arg := range browserArgs {
		allocOpts = append(allocOpts, chromedp.Flag(arg, true))
	}
	if opts.sandboxDisabled() {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	c := &chromedpBrowser{taskCtx: taskCtx, taskCancel: taskCancel, allocCancel: allocCancel}

	// The first Run allocates the browser and must use taskCtx itself: a
	// derived context would tear the browser down when it is released.
	stop := context.AfterFunc(ctx, taskCancel)
	err := chromedp.Run(taskCtx)
	stop()
	if err != nil {
		_ = c.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return c, nil
}

// run executes actions on the page, aborting when ctx is done.
func (c *chromedpBrowser) run(ctx context.Context, actions ...chromedp.Action) error {
	if c.closed.Load() {
		return ErrBrowserClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(c.taskCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (c *chromedpBrowser) SetViewport(ctx context.Context, width, height int) error {
	return c.run(ctx, emulation.SetDeviceMetricsOverride(int64(width), int64(height), 1, false))
}

func (c *chromedpBrowser) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url))
}

func (c *chromedpBrowser) WaitLoad(ctx context.Context) error {
	var complete bool
	return c.run(ctx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Poll(`document.readyState === "complete"`, &complete),
	)
}

func (c *chromedpBrowser) ScrollTo(ctx context.Context, x, y int) error {
	var ok bool
	return c.run(ctx, chromedp.Evaluate(fmt.Sprintf("window.scrollTo(%d, %d), true", x, y), &ok))
}

func (c *chromedpBrowser) ContentHeight(ctx context.Context) (int, error) {
	var height float64
	if err := c.run(ctx, chromedp.Evaluate(contentHeightExpr, &height)); err != nil {
		return 0, err
	}
	return int(math.Ceil(height)), nil
}

func (c *chromedpBrowser) Capture(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := c.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close shuts the browser down and waits for its process to exit.
// Safe to call more than once.
func (c *chromedpBrowser) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if err := chromedp.Cancel(c.taskCtx); err != nil && !errors.Is(err, context.Canceled) {
			c.closeErr = err
		}
		c.taskCancel()
		c.allocCancel()
	})
	return c.closeErr
}

// Compile-time interface check.
var _ Browser = (*chromedpBrowser)(nil)
