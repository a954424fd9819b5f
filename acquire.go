package html2img

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-html2img/internal/fileutil"
	"github.com/alnah/go-html2img/internal/logging"
)

// Built-in strategy names, in default priority order.
const (
	StrategySystemChrome    = "system-chrome"
	StrategyManagedChromium = "managed-chromium"
	StrategySystemEdge      = "system-edge"
)

// Strategy is one way of obtaining a working browser.
type Strategy interface {
	Name() string
	Acquire(ctx context.Context) (Browser, error)
}

// LaunchFunc starts a browser from an executable path.
type LaunchFunc func(ctx context.Context, bin string) (Browser, error)

// BinaryResolver locates a browser executable.
type BinaryResolver func(ctx context.Context) (string, error)

// binaryStrategy resolves an executable and hands it to a backend launcher.
type binaryStrategy struct {
	name    string
	resolve BinaryResolver
	launch  LaunchFunc
}

// NewBinaryStrategy builds a Strategy from a resolver and a launcher.
// It is the extension point for engines beyond the built-in ones.
func NewBinaryStrategy(name string, resolve BinaryResolver, launch LaunchFunc) Strategy {
	return &binaryStrategy{name: name, resolve: resolve, launch: launch}
}

func (s *binaryStrategy) Name() string { return s.name }

func (s *binaryStrategy) Acquire(ctx context.Context) (Browser, error) {
	bin, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.launch(ctx, bin)
	if err != nil {
		return nil, fmt.Errorf("launching %s: %w", bin, err)
	}
	return b, nil
}

// Acquire tries each strategy once, in order, and returns the first browser
// obtained. Each failure is logged before moving on. If every strategy fails
// the returned *AcquisitionError lists all of them and matches
// ErrDriverAcquisition.
func Acquire(ctx context.Context, logger *slog.Logger, strategies ...Strategy) (Browser, error) {
	log := logging.WithComponent(logger, "acquire")
	failures := make([]StrategyFailure, 0, len(strategies))

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			failures = append(failures, StrategyFailure{Strategy: s.Name(), Err: err})
			break
		}

		start := time.Now()
		b, err := s.Acquire(ctx)
		if err == nil && b == nil {
			err = errors.New("strategy returned no browser")
		}
		if err == nil {
			log.Info("browser acquired",
				slog.String("strategy", s.Name()),
				slog.Duration("duration", time.Since(start)))
			return b, nil
		}

		log.Warn("browser strategy failed",
			slog.String("strategy", s.Name()),
			slog.Any("error", err))
		failures = append(failures, StrategyFailure{Strategy: s.Name(), Err: err})
	}

	return nil, &AcquisitionError{Failures: failures}
}

// StrategyNames lists the built-in strategy names in default order.
func StrategyNames() []string {
	return []string{StrategySystemChrome, StrategyManagedChromium, StrategySystemEdge}
}

// IsStrategyName reports whether name is a built-in strategy.
func IsStrategyName(name string) bool {
	for _, n := range StrategyNames() {
		if n == name {
			return true
		}
	}
	return false
}

// StrategyOptions configures the built-in strategy chain.
type StrategyOptions struct {
	Backend   Backend
	Launch    LaunchOptions
	ChromeBin string   // Explicit binary for system-chrome; skips lookup
	Order     []string // Strategy names; empty selects StrategyNames()
}

// BuildStrategies returns the built-in strategies in opts.Order.
func BuildStrategies(opts StrategyOptions) ([]Strategy, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendRod
	}
	launch, err := backend.LaunchFunc(opts.Launch)
	if err != nil {
		return nil, err
	}

	order := opts.Order
	if len(order) == 0 {
		order = StrategyNames()
	}

	strategies := make([]Strategy, 0, len(order))
	for _, name := range order {
		switch name {
		case StrategySystemChrome:
			bin := opts.ChromeBin
			strategies = append(strategies, NewBinaryStrategy(name, func(context.Context) (string, error) {
				return ResolveSystemChrome(bin)
			}, launch))
		case StrategyManagedChromium:
			strategies = append(strategies, NewBinaryStrategy(name, DownloadManagedChromium, launch))
		case StrategySystemEdge:
			strategies = append(strategies, NewBinaryStrategy(name, func(context.Context) (string, error) {
				return ResolveSystemEdge()
			}, launch))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
		}
	}
	return strategies, nil
}

// ResolveSystemChrome returns explicit if set, then HTML2IMG_BROWSER_BIN or
// ROD_BROWSER_BIN, then the first Chrome/Chromium found by launcher.LookPath.
func ResolveSystemChrome(explicit string) (string, error) {
	for _, candidate := range []string{explicit, os.Getenv("HTML2IMG_BROWSER_BIN"), os.Getenv("ROD_BROWSER_BIN")} {
		if candidate == "" {
			continue
		}
		if !fileutil.FileExists(candidate) {
			return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, candidate)
		}
		return candidate, nil
	}

	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: no local Chrome or Chromium", ErrBinaryNotFound)
}

// ManagedChromiumPath returns where the managed Chromium lives once downloaded.
func ManagedChromiumPath() string {
	return launcher.NewBrowser().BinPath()
}

// DownloadManagedChromium returns the managed Chromium binary, downloading
// the pinned revision into the rod cache directory on first use.
func DownloadManagedChromium(ctx context.Context) (string, error) {
	br := launcher.NewBrowser()
	br.Context = ctx
	path, err := br.Get()
	if err != nil {
		return "", fmt.Errorf("%w: managed chromium: %v", ErrBinaryNotFound, err)
	}
	return path, nil
}

// edgeCandidates lists well-known Microsoft Edge install locations per OS.
func edgeCandidates() []string {
	switch runtime.GOOS {
	case "windows":
		var paths []string
		for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles", "LocalAppData"} {
			if dir := os.Getenv(env); dir != "" {
				paths = append(paths, dir+`\Microsoft\Edge\Application\msedge.exe`)
			}
		}
		return append(paths, "msedge.exe")
	case "darwin":
		return []string{"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"}
	default:
		return []string{
			"microsoft-edge",
			"microsoft-edge-stable",
			"microsoft-edge-beta",
			"/opt/microsoft/msedge/msedge",
		}
	}
}

// ResolveSystemEdge returns the first Microsoft Edge executable found.
func ResolveSystemEdge() (string, error) {
	for _, candidate := range edgeCandidates() {
		if strings.ContainsAny(candidate, `/\`) {
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no local Microsoft Edge", ErrBinaryNotFound)
}

// Compile-time interface check.
var _ Strategy = (*binaryStrategy)(nil)
