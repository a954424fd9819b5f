package html2img

// Notes:
// - fakeBrowser records every call in order so tests can assert the render protocol
// - Capture encodes a PNG sized like the current viewport, half transparent
// - recordPolicy logs settle phases into the fake's call list instead of sleeping
// - captureFor swaps the capture for chosen pages to exercise encode failures
// - fakeStrategy counts Acquire calls and returns a preset browser or error

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// fakeBrowser
// ---------------------------------------------------------------------------

type fakeBrowser struct {
	mu sync.Mutex

	calls   []string
	width   int
	height  int
	closed  int
	lastURL string

	// Behavior knobs.
	contentHeight int
	heightErr     error
	viewportErr   error
	navigateErr   error
	captureErr    error
	failNavigate  map[string]error  // Per-URL suffix
	captureFor    map[string][]byte // Capture bytes per URL suffix
	panicOn       string           // Method name that panics
	onNavigate    func(url string)
}

func newFakeBrowser(contentHeight int) *fakeBrowser {
	return &fakeBrowser{contentHeight: contentHeight}
}

func (f *fakeBrowser) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBrowser) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBrowser) CloseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeBrowser) maybePanic(method string) {
	if f.panicOn == method {
		panic(method + " exploded")
	}
}

func (f *fakeBrowser) SetViewport(ctx context.Context, width, height int) error {
	f.record(fmt.Sprintf("viewport:%dx%d", width, height))
	f.maybePanic("SetViewport")
	if f.viewportErr != nil {
		return f.viewportErr
	}
	f.mu.Lock()
	f.width, f.height = width, height
	f.mu.Unlock()
	return ctx.Err()
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	f.record("navigate")
	f.maybePanic("Navigate")
	f.mu.Lock()
	f.lastURL = url
	f.mu.Unlock()
	if f.onNavigate != nil {
		f.onNavigate(url)
	}
	for suffix, err := range f.failNavigate {
		if len(url) >= len(suffix) && url[len(url)-len(suffix):] == suffix {
			return err
		}
	}
	if f.navigateErr != nil {
		return f.navigateErr
	}
	return ctx.Err()
}

func (f *fakeBrowser) WaitLoad(ctx context.Context) error {
	f.record("waitload")
	return ctx.Err()
}

func (f *fakeBrowser) ScrollTo(ctx context.Context, x, y int) error {
	f.record(fmt.Sprintf("scroll:%d,%d", x, y))
	return ctx.Err()
}

func (f *fakeBrowser) ContentHeight(ctx context.Context) (int, error) {
	f.record("height")
	if f.heightErr != nil {
		return 0, f.heightErr
	}
	return f.contentHeight, ctx.Err()
}

func (f *fakeBrowser) Capture(ctx context.Context) ([]byte, error) {
	f.record("capture")
	f.maybePanic("Capture")
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	w, h, url := f.width, f.height, f.lastURL
	f.mu.Unlock()
	for suffix, data := range f.captureFor {
		if strings.HasSuffix(url, suffix) {
			return data, nil
		}
	}
	return testPNG(w, h), nil
}

func (f *fakeBrowser) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	f.calls = append(f.calls, "close")
	return nil
}

var _ Browser = (*fakeBrowser)(nil)

// testPNG encodes a w x h image whose top half is opaque red and whose
// bottom half is fully transparent.
func testPNG(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h/2; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// recordPolicy
// ---------------------------------------------------------------------------

type recordPolicy struct{}

func (recordPolicy) Settle(ctx context.Context, b Browser, phase Phase) error {
	if fb, ok := b.(*fakeBrowser); ok {
		fb.record("settle:" + phase.String())
	}
	return ctx.Err()
}

// ---------------------------------------------------------------------------
// fakeStrategy
// ---------------------------------------------------------------------------

type fakeStrategy struct {
	name    string
	browser Browser
	err     error

	mu    sync.Mutex
	calls int
}

func (s *fakeStrategy) Name() string { return s.name }

func (s *fakeStrategy) Acquire(ctx context.Context) (Browser, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.browser, nil
}

func (s *fakeStrategy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// bufferLogger returns a debug-level text logger writing into a buffer.
func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
