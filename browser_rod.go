package html2img

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-html2img/internal/process"
)

// rodBrowser implements Browser with go-rod over one launched process.
type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	closeOnce sync.Once
	closeErr  error
}

// launchRod starts bin headless and opens a blank page on it.
func launchRod(ctx context.Context, bin string, opts LaunchOptions) (*rodBrowser, error) {
	l := launcher.New().
		Context(ctx).
		Bin(bin).
		Headless(true).
		Set("force-device-scale-factor", "1")
	for _, arg := range browserArgs {
		l = l.Set(flags.Flag(arg))
	}
	if opts.sandboxDisabled() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		l.Cleanup()
		return nil, err
	}

	r := &rodBrowser{launcher: l, browser: rod.New().ControlURL(u)}
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		_ = r.Close()
		return nil, fmt.Errorf("connecting: %w", err)
	}

	r.page, err = r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return r, nil
}

func (r *rodBrowser) pageFor(ctx context.Context) (*rod.Page, error) {
	if r.page == nil {
		return nil, ErrBrowserClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.page.Context(ctx), nil
}

func (r *rodBrowser) SetViewport(ctx context.Context, width, height int) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	return p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

func (r *rodBrowser) Navigate(ctx context.Context, url string) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (r *rodBrowser) WaitLoad(ctx context.Context) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	return p.WaitLoad()
}

func (r *rodBrowser) ScrollTo(ctx context.Context, x, y int) error {
	p, err := r.pageFor(ctx)
	if err != nil {
		return err
	}
	_, err = p.Eval(`(x, y) => window.scrollTo(x, y)`, x, y)
	return err
}

func (r *rodBrowser) ContentHeight(ctx context.Context) (int, error) {
	p, err := r.pageFor(ctx)
	if err != nil {
		return 0, err
	}
	obj, err := p.Eval(`() => ` + contentHeightExpr)
	if err != nil {
		return 0, err
	}
	return obj.Value.Int(), nil
}

func (r *rodBrowser) Capture(ctx context.Context) ([]byte, error) {
	p, err := r.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	return p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Close disconnects from the browser, kills its process group and removes
// the launcher's user-data directory. Safe to call more than once.
func (r *rodBrowser) Close() error {
	r.closeOnce.Do(func() {
		if r.browser != nil {
			r.closeErr = r.browser.Close()
		}
		if r.launcher != nil {
			if pid := r.launcher.PID(); pid > 0 {
				_ = process.KillTree(pid)
			}
			r.launcher.Kill()
			r.launcher.Cleanup()
		}
		r.page = nil
		r.browser = nil
	})
	return r.closeErr
}

// Compile-time interface check.
var _ Browser = (*rodBrowser)(nil)
