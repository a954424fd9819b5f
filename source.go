package html2img

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2img/internal/assets"
	"github.com/alnah/go-html2img/internal/fileutil"
	"github.com/alnah/go-html2img/internal/markup"
)

// sourcePreparer maps an input file to the HTML file the renderer loads.
// HTML inputs pass through; Markdown inputs become a temporary HTML
// document whose <base> points at the source directory.
type sourcePreparer struct {
	style     string // Embedded style name or CSS path
	codeTheme string

	conv *markup.Converter
	css  string
}

func newSourcePreparer(style, codeTheme string) (*sourcePreparer, error) {
	p := &sourcePreparer{style: style, codeTheme: codeTheme}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *sourcePreparer) init() error {
	if p.conv != nil {
		return nil
	}
	css, err := assets.ResolveStyle(assets.NewEmbeddedLoader(), p.style)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	conv, err := markup.NewConverter(p.codeTheme)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	p.conv, p.css = conv, css
	return nil
}

// Prepare returns the path to render and a cleanup that removes any
// temporary file. cleanup is never nil.
func (p *sourcePreparer) Prepare(ctx context.Context, input string) (string, func(), error) {
	noop := func() {}
	if !fileutil.IsMarkdown(input) {
		return input, noop, nil
	}

	content, err := os.ReadFile(input) // #nosec G304 -- input path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return "", noop, fmt.Errorf("%w: %s", ErrSourceNotFound, input)
		}
		return "", noop, fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	if err := p.init(); err != nil {
		return "", noop, err
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	baseHref, err := fileutil.FileURL(filepath.Dir(abs))
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	if !strings.HasSuffix(baseHref, "/") {
		baseHref += "/"
	}

	html, err := p.conv.ToHTML(ctx, content, markup.Document{
		Title:    fileutil.BaseName(input),
		BaseHref: baseHref,
		CSS:      p.css,
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", noop, ctx.Err()
		}
		return "", noop, fmt.Errorf("%w: %v", ErrMarkdown, err)
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	return path, cleanup, nil
}
