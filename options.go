package html2img

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds settings resolved in NewConverter.
type converterConfig struct {
	timeout       time.Duration // Per-document budget, 0 = none
	markdownStyle string
	codeTheme     string
	strategyOpts  StrategyOptions
}

// defaultTimeout bounds a single document, readiness waits included.
const defaultTimeout = 60 * time.Second

// WithTimeout sets the per-document timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("html2img: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStrategies replaces the built-in acquisition chain. Strategies are
// tried in the given order.
func WithStrategies(strategies ...Strategy) Option {
	return func(c *Converter) {
		c.strategies = strategies
	}
}

// WithStrategyOrder selects and orders the built-in strategies by name.
// Ignored when WithStrategies is used.
func WithStrategyOrder(names ...string) Option {
	return func(c *Converter) {
		c.cfg.strategyOpts.Order = names
	}
}

// WithBackend selects the library driving the browser.
func WithBackend(b Backend) Option {
	return func(c *Converter) {
		c.cfg.strategyOpts.Backend = b
	}
}

// WithBrowserBin pins the binary used by the system-chrome strategy.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.strategyOpts.ChromeBin = path
	}
}

// WithNoSandbox disables the Chromium sandbox.
func WithNoSandbox(disable bool) Option {
	return func(c *Converter) {
		c.cfg.strategyOpts.Launch.NoSandbox = disable
	}
}

// WithReadiness sets the policy deciding when a page is ready for capture.
func WithReadiness(p ReadinessPolicy) Option {
	return func(c *Converter) {
		c.readiness = p
	}
}

// WithLogger sets the structured logger. nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithMarkdownStyle sets the stylesheet for Markdown inputs: an embedded
// style name or a path to a .css file.
func WithMarkdownStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.markdownStyle = nameOrPath
	}
}

// WithCodeTheme sets the chroma style used for fenced code in Markdown inputs.
func WithCodeTheme(name string) Option {
	return func(c *Converter) {
		c.cfg.codeTheme = name
	}
}
