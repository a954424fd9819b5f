package main

// Notes:
// - stubBrowser stands in for Chrome: it tracks the viewport and captures a
//   white PNG of that size, so convert runs end to end without a browser.
// - Strategies are built with html2img.NewBinaryStrategy and injected through
//   Environment.Strategies, the same hook production leaves nil.
// - fastArgs zeroes every settle delay; the fixed policy otherwise sleeps 6s per page.

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-html2img"
)

type stubBrowser struct {
	mu     sync.Mutex
	width  int
	height int
	pages  []string
	closed int
}

func (b *stubBrowser) SetViewport(_ context.Context, width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	return nil
}

func (b *stubBrowser) Navigate(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages = append(b.pages, url)
	return nil
}

func (b *stubBrowser) WaitLoad(context.Context) error             { return nil }
func (b *stubBrowser) ScrollTo(context.Context, int, int) error   { return nil }
func (b *stubBrowser) ContentHeight(context.Context) (int, error) { return 0, nil }

func (b *stubBrowser) Capture(context.Context) ([]byte, error) {
	b.mu.Lock()
	w, h := b.width, b.height
	b.mu.Unlock()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *stubBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

func (b *stubBrowser) Pages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.pages...)
}

func (b *stubBrowser) CloseCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// stubStrategy acquires b, or fails with err when b is nil.
func stubStrategy(b *stubBrowser, err error) html2img.Strategy {
	return html2img.NewBinaryStrategy("stub", func(context.Context) (string, error) {
		if err != nil {
			return "", err
		}
		return "/usr/bin/stub-chrome", nil
	}, func(context.Context, string) (html2img.Browser, error) {
		return b, nil
	})
}

// testEnv returns an environment with captured output and the given strategies.
func testEnv(strategies ...html2img.Strategy) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:        time.Now,
		Stdout:     &stdout,
		Stderr:     &stderr,
		Strategies: strategies,
	}, &stdout, &stderr
}

// fastArgs prepends flags that keep a run fast and small; later args win.
func fastArgs(args ...string) []string {
	return append([]string{
		"--width", "20",
		"--height", "10",
		"--settle-load", "0s",
		"--settle-scroll", "0s",
		"--settle-resize", "0s",
	}, args...)
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("output should contain %q, got:\n%s", want, output)
	}
}

var errStubMissing = errors.New("stub browser not installed")
