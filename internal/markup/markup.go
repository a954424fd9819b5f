// Package markup turns Markdown sources into standalone HTML5 documents that
// the renderer can load from disk like any other page.
package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultCodeTheme is the chroma style used for fenced code blocks.
const DefaultCodeTheme = "github"

var (
	ErrHTMLConversion   = errors.New("HTML conversion failed")
	ErrUnknownCodeTheme = errors.New("unknown code theme")
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{{- if .BaseHref}}
<base href="{{.BaseHref}}">
{{- end}}
<title>{{.Title}}</title>
<style>
{{.CSS}}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Document carries the page-level settings wrapped around the converted body.
type Document struct {
	Title    string
	BaseHref string // Resolves relative links and images, usually the source directory URL
	CSS      string
}

// Converter converts Markdown to HTML using goldmark with GFM, footnotes and
// chroma syntax highlighting.
type Converter struct {
	md      goldmark.Markdown
	codeCSS string
}

// NewConverter creates a Converter whose code blocks use the named chroma
// style. An empty theme selects DefaultCodeTheme.
func NewConverter(codeTheme string) (*Converter, error) {
	if codeTheme == "" {
		codeTheme = DefaultCodeTheme
	}
	style, ok := styles.Registry[codeTheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodeTheme, codeTheme)
	}

	var css bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&css, style); err != nil {
		return nil, fmt.Errorf("%w: writing code stylesheet: %v", ErrHTMLConversion, err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(codeTheme),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)

	return &Converter{md: md, codeCSS: css.String()}, nil
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Goldmark has no context support, so conversion runs on a goroutine and
// the caller stops waiting when ctx is done.
func (c *Converter) ToHTML(ctx context.Context, content []byte, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var body bytes.Buffer
		if err := c.md.Convert(content, &body); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}

		var out strings.Builder
		err := documentTemplate.Execute(&out, struct {
			Title    string
			BaseHref template.URL
			CSS      template.CSS
			Body     template.HTML
		}{
			Title:    doc.Title,
			BaseHref: template.URL(doc.BaseHref),               // #nosec G203 -- local file URL built by the caller
			CSS:      template.CSS(doc.CSS + "\n" + c.codeCSS), // #nosec G203 -- stylesheets come from embedded assets or the user's own file
			Body:     template.HTML(body.String()),             // #nosec G203 -- goldmark output without raw HTML passthrough
		})
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: out.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
