//go:build integration

package html2img

// Notes:
// - Requires a local Chrome/Chromium (or network access for the managed download)
// - Each backend renders the same fixture; tall content must grow the capture
// - Run with: go test -tags integration ./...

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testTimeout bounds one integration test including browser startup.
const testTimeout = 90 * time.Second

const tallPage = `<!DOCTYPE html>
<html><head><style>body{margin:0} div{height:1500px;background:#eee}</style></head>
<body><div>tall</div></body></html>`

func TestIntegration_Backends(t *testing.T) {
	for _, backend := range []Backend{BackendRod, BackendChromedp} {
		t.Run(string(backend), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()

			dir := t.TempDir()
			src := writeFile(t, dir, "tall.html", tallPage)

			strategies, err := BuildStrategies(StrategyOptions{
				Backend: backend,
				Launch:  LaunchOptions{NoSandbox: true},
			})
			if err != nil {
				t.Fatal(err)
			}
			b, err := Acquire(ctx, nil, strategies...)
			if err != nil {
				t.Skipf("no browser available: %v", err)
			}
			defer b.Close()

			r := NewRenderer(&EventDriven{Quiet: 100 * time.Millisecond}, nil)
			res := r.Render(ctx, b, RenderRequest{Source: src, Width: 800, Height: 600, Format: FormatPNG})
			if !res.Success {
				t.Fatalf("Render() failed: %v", res.Err)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(res.Bitmap))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != 800 || cfg.Height < 1500 {
				t.Errorf("capture = %dx%d, want 800 x >=1500", cfg.Width, cfg.Height)
			}

			// Close is idempotent.
			if err := b.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
			if err := b.Close(); err != nil {
				t.Errorf("second Close() error = %v", err)
			}
			if err := b.SetViewport(ctx, 10, 10); err == nil {
				t.Error("SetViewport after Close succeeded")
			}
		})
	}
}

func TestIntegration_ConvertBatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dir := t.TempDir()
	inputs := []string{
		writeFile(t, dir, "a.html", "<h1>A</h1>"),
		filepath.Join(dir, "missing.html"),
		writeFile(t, dir, "c.md", "# C\n\n```go\nfunc main() {}\n```\n"),
	}

	conv, err := NewConverter(
		WithNoSandbox(true),
		WithReadiness(&EventDriven{Quiet: 100 * time.Millisecond}),
	)
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := conv.Convert(ctx, Request{
		Inputs:  inputs,
		Format:  FormatJPEG,
		Width:   640,
		Height:  480,
		Quality: 85,
	}, nil)
	if err != nil {
		if strings.Contains(err.Error(), ErrDriverAcquisition.Error()) {
			t.Skipf("no browser available: %v", err)
		}
		t.Fatal(err)
	}
	if outcome.Total != 3 || outcome.Succeeded != 2 {
		t.Errorf("outcome = %d/%d, want 2/3", outcome.Succeeded, outcome.Total)
	}
	for _, name := range []string{"a.jpg", "c.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
