package html2img

import "context"

// Browser is a live handle to one headless browser with a single page.
// It is created by Acquire and owned by whoever called it; the renderer and
// the batch orchestrator only borrow it. Close is idempotent.
type Browser interface {
	// SetViewport resizes the page viewport to width x height CSS pixels at
	// device scale factor 1.
	SetViewport(ctx context.Context, width, height int) error
	// Navigate loads url and returns once the load event has fired.
	Navigate(ctx context.Context, url string) error
	// WaitLoad blocks until the current document and its subresources have loaded.
	WaitLoad(ctx context.Context) error
	// ScrollTo scrolls the window to the given document coordinates.
	ScrollTo(ctx context.Context, x, y int) error
	// ContentHeight evaluates contentHeightExpr in the page.
	ContentHeight(ctx context.Context) (int, error)
	// Capture returns a PNG screenshot of the current viewport.
	Capture(ctx context.Context) ([]byte, error)
	// Close shuts the browser down and releases its process.
	Close() error
}

// contentHeightExpr is the document height: the largest of the body and
// root element box measurements.
const contentHeightExpr = `Math.max(
	document.body ? document.body.scrollHeight : 0,
	document.body ? document.body.offsetHeight : 0,
	document.documentElement.clientHeight,
	document.documentElement.scrollHeight,
	document.documentElement.offsetHeight
)`

// browserArgs are passed to every launched Chromium-family browser.
var browserArgs = []string{
	"disable-gpu",
	"disable-dev-shm-usage",
	"hide-scrollbars",
	"mute-audio",
}
