package html2img

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Backend selects the automation library that drives the launched browser.
type Backend string

// Supported backends.
const (
	BackendRod      Backend = "rod"
	BackendChromedp Backend = "chromedp"
)

// ParseBackend accepts rod or chromedp in any case. Empty selects rod.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(BackendRod):
		return BackendRod, nil
	case string(BackendChromedp):
		return BackendChromedp, nil
	}
	return "", fmt.Errorf("%w: %q (must be rod or chromedp)", ErrInvalidBackend, s)
}

// LaunchOptions configures how a browser process is started.
type LaunchOptions struct {
	// NoSandbox disables the Chromium sandbox, required in most containers.
	NoSandbox bool
}

// sandboxDisabled reports whether the sandbox must be turned off, either
// explicitly or because the process runs in CI.
func (o LaunchOptions) sandboxDisabled() bool {
	return o.NoSandbox || os.Getenv("CI") == "true" || os.Getenv("HTML2IMG_NO_SANDBOX") == "1"
}

// LaunchFunc returns the launcher for b.
func (b Backend) LaunchFunc(opts LaunchOptions) (LaunchFunc, error) {
	switch b {
	case BackendRod:
		return func(ctx context.Context, bin string) (Browser, error) {
			br, err := launchRod(ctx, bin, opts)
			if err != nil {
				return nil, err
			}
			return br, nil
		}, nil
	case BackendChromedp:
		return func(ctx context.Context, bin string) (Browser, error) {
			br, err := launchChromedp(ctx, bin, opts)
			if err != nil {
				return nil, err
			}
			return br, nil
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, string(b))
}
