package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-html2img"
	"github.com/alnah/go-html2img/internal/fileutil"
	"github.com/alnah/go-html2img/internal/logging"
	"github.com/alnah/go-html2img/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under os.UserConfigDir searched for named configs.
const AppDirName = "go-html2img"

// Readiness policy names.
const (
	PolicyFixed = "fixed"
	PolicyEvent = "event"
)

// Config holds all configuration for a conversion run.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Browser   BrowserConfig   `yaml:"browser"`
	Readiness ReadinessConfig `yaml:"readiness"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Log       LogConfig       `yaml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Scanned when no input is given (empty = must specify)
}

// OutputConfig defines image output options.
type OutputConfig struct {
	DefaultDir  string `yaml:"defaultDir"` // Empty = next to each source
	Format      string `yaml:"format"`     // png, jpeg, jpg
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	JPEGQuality int    `yaml:"jpegQuality"`
}

// BrowserConfig defines how the browser is acquired.
type BrowserConfig struct {
	Backend    string        `yaml:"backend"`    // rod, chromedp
	Bin        string        `yaml:"bin"`        // Explicit Chrome/Chromium binary
	NoSandbox  bool          `yaml:"noSandbox"`  // Required in most containers
	Strategies []string      `yaml:"strategies"` // Acquisition order (empty = default chain)
	Timeout    time.Duration `yaml:"timeout"`    // Per-document render budget (0 = none)
}

// ReadinessConfig defines how long the renderer waits for the page to settle.
type ReadinessConfig struct {
	Policy string        `yaml:"policy"` // fixed, event
	Load   time.Duration `yaml:"load"`
	Scroll time.Duration `yaml:"scroll"`
	Resize time.Duration `yaml:"resize"`
	Quiet  time.Duration `yaml:"quiet"` // Event policy only
}

// MarkdownConfig defines rendering options for Markdown inputs.
type MarkdownConfig struct {
	Style     string `yaml:"style"`     // Embedded style name or CSS file path
	CodeTheme string `yaml:"codeTheme"` // Chroma style name
}

// LogConfig defines logger options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultTimeout is the per-document render budget used when none is configured.
const DefaultTimeout = 60 * time.Second

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:      string(html2img.FormatPNG),
			Width:       html2img.DefaultWidth,
			Height:      html2img.DefaultHeight,
			JPEGQuality: html2img.DefaultJPEGQuality,
		},
		Browser: BrowserConfig{
			Backend: string(html2img.BackendRod),
			Timeout: DefaultTimeout,
		},
		Readiness: ReadinessConfig{
			Policy: PolicyFixed,
			Load:   html2img.DefaultLoadSettle,
			Scroll: html2img.DefaultScrollSettle,
			Resize: html2img.DefaultResizeSettle,
			Quiet:  html2img.DefaultEventQuiet,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// Validate checks every value that would otherwise fail deep inside a run.
// Called automatically by LoadConfig, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	if _, err := html2img.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidValue, err)
	}
	if err := html2img.ValidateDimensions(c.Output.Width, c.Output.Height); err != nil {
		return fmt.Errorf("%w: output: %v", ErrInvalidValue, err)
	}
	if err := html2img.ValidateQuality(c.Output.JPEGQuality); err != nil {
		return fmt.Errorf("%w: output.jpegQuality: %v", ErrInvalidValue, err)
	}

	if _, err := html2img.ParseBackend(c.Browser.Backend); err != nil {
		return fmt.Errorf("%w: browser.backend: %v", ErrInvalidValue, err)
	}
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("%w: browser.timeout: must not be negative, got %s", ErrInvalidValue, c.Browser.Timeout)
	}
	seen := make(map[string]bool, len(c.Browser.Strategies))
	for i, name := range c.Browser.Strategies {
		if !html2img.IsStrategyName(name) {
			return fmt.Errorf("%w: browser.strategies[%d]: unknown strategy %q (must be one of %s)",
				ErrInvalidValue, i, name, strings.Join(html2img.StrategyNames(), ", "))
		}
		if seen[name] {
			return fmt.Errorf("%w: browser.strategies[%d]: duplicate strategy %q", ErrInvalidValue, i, name)
		}
		seen[name] = true
	}

	switch strings.ToLower(c.Readiness.Policy) {
	case PolicyFixed, PolicyEvent:
	default:
		return fmt.Errorf("%w: readiness.policy: %q (must be fixed or event)", ErrInvalidValue, c.Readiness.Policy)
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"readiness.load", c.Readiness.Load},
		{"readiness.scroll", c.Readiness.Scroll},
		{"readiness.resize", c.Readiness.Resize},
		{"readiness.quiet", c.Readiness.Quiet},
	} {
		if d.value < 0 {
			return fmt.Errorf("%w: %s: must not be negative, got %s", ErrInvalidValue, d.name, d.value)
		}
	}

	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: log.level: %q", ErrInvalidValue, c.Log.Level)
	}
	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("%w: log.format: %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig, so omitted keys keep their defaults.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFileStrict(configPath, cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
