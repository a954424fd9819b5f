package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// outputFlags holds image output flags.
type outputFlags struct {
	dir     string
	format  string
	width   int
	height  int
	quality int
}

// browserFlags holds browser acquisition flags.
type browserFlags struct {
	backend    string
	bin        string
	noSandbox  bool
	strategies []string
	timeout    time.Duration
}

// readinessFlags holds page settle flags.
type readinessFlags struct {
	policy string
	load   time.Duration
	scroll time.Duration
	resize time.Duration
	quiet  time.Duration
}

// markdownFlags holds flags for Markdown inputs.
type markdownFlags struct {
	style     string
	codeTheme string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	output    outputFlags
	browser   browserFlags
	readiness readinessFlags
	markdown  markdownFlags

	// set records which flags were given explicitly; only those override
	// lower-precedence sources.
	set map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.quiet, "quiet", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging and detailed timing")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addOutputFlags adds image output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory (default: next to each input)")
	fs.StringVarP(&f.format, "format", "f", "", "image format: png, jpeg")
	fs.IntVarP(&f.width, "width", "W", 0, "viewport width in pixels (1-10000)")
	fs.IntVarP(&f.height, "height", "H", 0, "minimum viewport height in pixels (1-10000)")
	fs.IntVarP(&f.quality, "quality", "q", 0, "JPEG quality (1-100)")
}

// addBrowserFlags adds browser flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.backend, "backend", "", "automation backend: rod, chromedp")
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome/Chromium executable to use")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the browser sandbox (containers, CI)")
	fs.StringSliceVar(&f.strategies, "strategy", nil, "acquisition order: system-chrome, managed-chromium, system-edge")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-document timeout (e.g., 30s, 2m)")
}

// addReadinessFlags adds page settle flags to a FlagSet.
func addReadinessFlags(fs *flag.FlagSet, f *readinessFlags) {
	fs.StringVar(&f.policy, "readiness", "", "settle policy: fixed, event")
	fs.DurationVar(&f.load, "settle-load", 0, "fixed wait after page load")
	fs.DurationVar(&f.scroll, "settle-scroll", 0, "fixed wait after scrolling to top")
	fs.DurationVar(&f.resize, "settle-resize", 0, "fixed wait after resizing to content")
	fs.DurationVar(&f.quiet, "settle-quiet", 0, "quiet period for the event policy")
}

// addMarkdownFlags adds Markdown rendering flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path for Markdown inputs")
	fs.StringVar(&f.codeTheme, "code-theme", "", "syntax highlighting theme for Markdown code blocks")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	addOutputFlags(fs, &f.output)
	addCommonFlags(fs, &f.common)
	addBrowserFlags(fs, &f.browser)
	addReadinessFlags(fs, &f.readiness)
	addMarkdownFlags(fs, &f.markdown)
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Parse errors and --help are returned, not printed; the caller reports them.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{set: make(map[string]bool)}
	fs := newConvertFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	return f, fs.Args(), nil
}
