package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-html2img"
	"github.com/alnah/go-html2img/internal/assets"
	"github.com/alnah/go-html2img/internal/config"
	"github.com/alnah/go-html2img/internal/hints"
	"github.com/alnah/go-html2img/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrNoInput        = errors.New("no input specified")
	ErrPartialFailure = errors.New("some conversions failed")
	ErrCanceled       = errors.New("conversion canceled")
)

// runConvertCmd parses flags, runs the conversion and maps the result to an
// exit code. Errors are printed to stderr.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrUsage, err)
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'html2img help convert' for usage.")
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	envCfg, err := loadEnvConfig()
	if err != nil {
		return err
	}
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}

	// CLI flags > env vars > config file > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := buildLogger(cfg, env.Stderr)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	inputPaths, err := resolveInputPaths(positionalArgs, cfg)
	if err != nil {
		return err
	}
	inputs, err := discoverInputs(inputPaths)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: nothing to convert in %s%s", ErrNoInput, strings.Join(inputPaths, ", "), hints.ForNoInputs())
	}

	if err := checkStyle(cfg.Markdown.Style); err != nil {
		return err
	}

	req, err := buildRequest(inputs, cfg)
	if err != nil {
		return err
	}

	conv, err := html2img.NewConverter(buildConverterOptions(cfg, logger, env)...)
	if err != nil {
		return err
	}

	printer := newProgressPrinter(env, flags.common.quiet, flags.common.verbose)
	start := env.Now()
	outcome, err := conv.Convert(ctx, req, printer.progress)
	if err != nil {
		if errors.Is(err, html2img.ErrDriverAcquisition) {
			return fmt.Errorf("%w%s", err, hints.ForDriverAcquisition())
		}
		return err
	}

	printSummary(env, outcome, env.Now().Sub(start), flags.common.quiet, flags.common.verbose)
	return outcomeError(outcome)
}

// loadConfig loads the config named by the flag, falling back to
// HTML2IMG_CONFIG. Neither set means defaults.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. Only flags given explicitly
// override, so a zero value on the command line still wins over the file.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	set := flags.set

	// Output flags
	if set["output"] {
		cfg.Output.DefaultDir = flags.output.dir
	}
	if set["format"] {
		cfg.Output.Format = flags.output.format
	}
	if set["width"] {
		cfg.Output.Width = flags.output.width
	}
	if set["height"] {
		cfg.Output.Height = flags.output.height
	}
	if set["quality"] {
		cfg.Output.JPEGQuality = flags.output.quality
	}

	// Browser flags
	if set["backend"] {
		cfg.Browser.Backend = flags.browser.backend
	}
	if set["browser-bin"] {
		cfg.Browser.Bin = flags.browser.bin
	}
	if set["no-sandbox"] {
		cfg.Browser.NoSandbox = flags.browser.noSandbox
	}
	if set["strategy"] {
		cfg.Browser.Strategies = flags.browser.strategies
	}
	if set["timeout"] {
		cfg.Browser.Timeout = flags.browser.timeout
	}

	// Readiness flags
	if set["readiness"] {
		cfg.Readiness.Policy = flags.readiness.policy
	}
	if set["settle-load"] {
		cfg.Readiness.Load = flags.readiness.load
	}
	if set["settle-scroll"] {
		cfg.Readiness.Scroll = flags.readiness.scroll
	}
	if set["settle-resize"] {
		cfg.Readiness.Resize = flags.readiness.resize
	}
	if set["settle-quiet"] {
		cfg.Readiness.Quiet = flags.readiness.quiet
	}

	// Markdown flags
	if set["style"] {
		cfg.Markdown.Style = flags.markdown.style
	}
	if set["code-theme"] {
		cfg.Markdown.CodeTheme = flags.markdown.codeTheme
	}

	// Logging flags
	if set["log-format"] {
		cfg.Log.Format = flags.common.logFormat
	}
	if flags.common.verbose {
		cfg.Log.Level = "debug"
	} else if flags.common.quiet {
		cfg.Log.Level = "error"
	}
}

// buildLogger creates the run logger on w from the merged config.
func buildLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.WithComponent(logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: w,
	}), "cli")
}

// resolveInputPaths determines the input paths from args or config.
func resolveInputPaths(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// checkStyle rejects unknown Markdown styles before a browser is started,
// listing the embedded ones.
func checkStyle(style string) error {
	if style == "" {
		return nil
	}
	loader := assets.NewEmbeddedLoader()
	if _, err := assets.ResolveStyle(loader, style); err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %v%s", html2img.ErrMarkdown, err, hints.ForStyleNotFound(loader.Names()))
		}
		return fmt.Errorf("%w: %v", html2img.ErrMarkdown, err)
	}
	return nil
}

// buildRequest maps the merged config to a batch request.
func buildRequest(inputs []string, cfg *config.Config) (html2img.Request, error) {
	format, err := html2img.ParseFormat(cfg.Output.Format)
	if err != nil {
		return html2img.Request{}, err
	}
	return html2img.Request{
		Inputs:    inputs,
		OutputDir: cfg.Output.DefaultDir,
		Format:    format,
		Width:     cfg.Output.Width,
		Height:    cfg.Output.Height,
		Quality:   cfg.Output.JPEGQuality,
	}, nil
}

// buildReadiness returns the settle policy selected by cfg.
func buildReadiness(cfg config.ReadinessConfig) html2img.ReadinessPolicy {
	if strings.EqualFold(cfg.Policy, config.PolicyEvent) {
		return &html2img.EventDriven{Quiet: cfg.Quiet}
	}
	return &html2img.FixedDelay{
		Load:   cfg.Load,
		Scroll: cfg.Scroll,
		Resize: cfg.Resize,
	}
}

// buildConverterOptions maps the merged config to converter options.
// Strategies injected through env replace the built-in chain.
func buildConverterOptions(cfg *config.Config, logger *slog.Logger, env *Environment) []html2img.Option {
	// Validated by cfg.Validate.
	backend, _ := html2img.ParseBackend(cfg.Browser.Backend)

	opts := []html2img.Option{
		html2img.WithLogger(logger),
		html2img.WithBackend(backend),
		html2img.WithBrowserBin(cfg.Browser.Bin),
		html2img.WithNoSandbox(cfg.Browser.NoSandbox),
		html2img.WithReadiness(buildReadiness(cfg.Readiness)),
		html2img.WithMarkdownStyle(cfg.Markdown.Style),
		html2img.WithCodeTheme(cfg.Markdown.CodeTheme),
	}
	if len(cfg.Browser.Strategies) > 0 {
		opts = append(opts, html2img.WithStrategyOrder(cfg.Browser.Strategies...))
	}
	if cfg.Browser.Timeout > 0 {
		opts = append(opts, html2img.WithTimeout(cfg.Browser.Timeout))
	}
	if len(env.Strategies) > 0 {
		opts = append(opts, html2img.WithStrategies(env.Strategies...))
	}
	return opts
}

// outcomeError maps a finished batch to the command's error.
func outcomeError(outcome html2img.BatchOutcome) error {
	if outcome.Canceled {
		return fmt.Errorf("%w: %d of %d converted", ErrCanceled, outcome.Succeeded, outcome.Total)
	}
	if outcome.AllSucceeded() {
		return nil
	}

	err := fmt.Errorf("%w: %d of %d failed", ErrPartialFailure, outcome.Failed(), outcome.Total)
	for _, item := range outcome.Items {
		if errors.Is(item.Err, context.DeadlineExceeded) {
			return fmt.Errorf("%w%s", err, hints.ForTimeout())
		}
	}
	return err
}
