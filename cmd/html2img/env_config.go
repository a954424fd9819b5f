package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-html2img/internal/config"
)

// ErrInvalidEnv is returned when an HTML2IMG_* variable cannot be parsed.
var ErrInvalidEnv = errors.New("invalid environment variable")

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
// Zero values mean "not set".
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // HTML2IMG_CONFIG: config file name or path
	OutputDir  string // HTML2IMG_OUTPUT_DIR: output directory
	Format     string // HTML2IMG_FORMAT: png, jpeg
	Width      int    // HTML2IMG_WIDTH: viewport width
	Height     int    // HTML2IMG_HEIGHT: minimum viewport height
	Quality    int    // HTML2IMG_QUALITY: JPEG quality

	// Tier 2 - Browser
	Backend    string        // HTML2IMG_BACKEND: rod, chromedp
	BrowserBin string        // HTML2IMG_BROWSER_BIN: Chrome/Chromium executable
	NoSandbox  bool          // HTML2IMG_NO_SANDBOX: "1" disables the sandbox
	Strategies []string      // HTML2IMG_STRATEGIES: comma-separated acquisition order
	Timeout    time.Duration // HTML2IMG_TIMEOUT: per-document timeout

	// Tier 3 - Extended
	InputDir  string // HTML2IMG_INPUT_DIR: scanned when no input is given
	Readiness string // HTML2IMG_READINESS: fixed, event
	Style     string // HTML2IMG_STYLE: Markdown style name or CSS path
	CodeTheme string // HTML2IMG_CODE_THEME: chroma theme
	LogLevel  string // HTML2IMG_LOG_LEVEL: debug, info, warn, error
	LogFormat string // HTML2IMG_LOG_FORMAT: text, json
}

// knownEnvVars lists valid HTML2IMG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"HTML2IMG_CONFIG":     true,
	"HTML2IMG_OUTPUT_DIR": true,
	"HTML2IMG_FORMAT":     true,
	"HTML2IMG_WIDTH":      true,
	"HTML2IMG_HEIGHT":     true,
	"HTML2IMG_QUALITY":    true,
	// Tier 2 - Browser
	"HTML2IMG_BACKEND":     true,
	"HTML2IMG_BROWSER_BIN": true,
	"HTML2IMG_NO_SANDBOX":  true,
	"HTML2IMG_STRATEGIES":  true,
	"HTML2IMG_TIMEOUT":     true,
	// Tier 3 - Extended
	"HTML2IMG_INPUT_DIR":  true,
	"HTML2IMG_READINESS":  true,
	"HTML2IMG_STYLE":      true,
	"HTML2IMG_CODE_THEME": true,
	"HTML2IMG_LOG_LEVEL":  true,
	"HTML2IMG_LOG_FORMAT": true,
	"HTML2IMG_CONTAINER":  true, // Read by doctor only
}

// loadEnvConfig reads configuration from environment variables.
// Returns ErrInvalidEnv for values that are set but malformed.
func loadEnvConfig() (*envConfig, error) {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("HTML2IMG_CONFIG"),
		OutputDir:  os.Getenv("HTML2IMG_OUTPUT_DIR"),
		Format:     os.Getenv("HTML2IMG_FORMAT"),
		// Tier 2
		Backend:    os.Getenv("HTML2IMG_BACKEND"),
		BrowserBin: os.Getenv("HTML2IMG_BROWSER_BIN"),
		NoSandbox:  os.Getenv("HTML2IMG_NO_SANDBOX") == "1",
		// Tier 3
		InputDir:  os.Getenv("HTML2IMG_INPUT_DIR"),
		Readiness: os.Getenv("HTML2IMG_READINESS"),
		Style:     os.Getenv("HTML2IMG_STYLE"),
		CodeTheme: os.Getenv("HTML2IMG_CODE_THEME"),
		LogLevel:  os.Getenv("HTML2IMG_LOG_LEVEL"),
		LogFormat: os.Getenv("HTML2IMG_LOG_FORMAT"),
	}

	// Parse ints
	for name, dst := range map[string]*int{
		"HTML2IMG_WIDTH":   &cfg.Width,
		"HTML2IMG_HEIGHT":  &cfg.Height,
		"HTML2IMG_QUALITY": &cfg.Quality,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q: not an integer", ErrInvalidEnv, name, v)
		}
		*dst = n
	}

	// Parse duration for timeout
	if v := os.Getenv("HTML2IMG_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: HTML2IMG_TIMEOUT=%q: want a positive duration like 30s", ErrInvalidEnv, v)
		}
		cfg.Timeout = d
	}

	// Parse strategy list
	if v := os.Getenv("HTML2IMG_STRATEGIES"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Strategies = append(cfg.Strategies, name)
			}
		}
	}

	return cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized HTML2IMG_* variables.
// Helps catch typos like HTML2IMG_WITDH instead of HTML2IMG_WIDTH.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "HTML2IMG_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; flags are applied later via
// mergeFlags. This ensures: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Output
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Width != 0 {
		cfg.Output.Width = env.Width
	}
	if env.Height != 0 {
		cfg.Output.Height = env.Height
	}
	if env.Quality != 0 {
		cfg.Output.JPEGQuality = env.Quality
	}

	// Tier 2 - Browser
	if env.Backend != "" {
		cfg.Browser.Backend = env.Backend
	}
	if env.BrowserBin != "" {
		cfg.Browser.Bin = env.BrowserBin
	}
	if env.NoSandbox {
		cfg.Browser.NoSandbox = true
	}
	if len(env.Strategies) > 0 {
		cfg.Browser.Strategies = env.Strategies
	}
	if env.Timeout != 0 {
		cfg.Browser.Timeout = env.Timeout
	}

	// Tier 3 - Extended
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.Readiness != "" {
		cfg.Readiness.Policy = env.Readiness
	}
	if env.Style != "" {
		cfg.Markdown.Style = env.Style
	}
	if env.CodeTheme != "" {
		cfg.Markdown.CodeTheme = env.CodeTheme
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
