// Package markdown renders help article bodies to HTML.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls Markdown rendering.
type Options struct {
	// HeadingIDs adds id attributes to headings.
	HeadingIDs bool
	// HardWraps renders single newlines as <br>.
	HardWraps bool
}

// Renderer converts Markdown to HTML. Raw HTML in the source is omitted.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GitHub-flavored extensions enabled.
func NewRenderer(opts Options) *Renderer {
	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	var rendererOpts []goldmark.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithHardWraps()))
	}

	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
	}, rendererOpts...)...)
	return &Renderer{md: md}
}

// Render converts body (front matter already removed) to HTML.
func (r *Renderer) Render(body []byte) (template.HTML, error) {
	return r.RenderWithIDPrefix(body, "")
}

// RenderWithIDPrefix is Render with generated heading ids prefixed by
// prefix. Ids are unique within one call.
func (r *Renderer) RenderWithIDPrefix(body []byte, prefix string) (template.HTML, error) {
	pc := parser.NewContext(parser.WithIDs(newHeadingIDs(prefix)))
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf, parser.WithContext(pc)); err != nil {
		return "", err
	}
	// #nosec G203 -- goldmark escapes text and drops raw HTML without WithUnsafe
	return template.HTML(buf.String()), nil
}
