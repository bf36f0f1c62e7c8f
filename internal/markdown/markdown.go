// Package markdown renders document bodies to HTML fragments and plain-text excerpts.
package markdown

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// DefaultExcerptLength is the excerpt size in characters when none is configured.
const DefaultExcerptLength = 200

// Options controls rendering. AllowHTML applies to every document of a build.
type Options struct {
	AllowHTML     bool
	ExcerptLength int
}

// Rendered is the output for one document body.
type Rendered struct {
	HTML    string
	Excerpt string
}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	opts Options
	pool sync.Pool
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.ExcerptLength == 0 {
		opts.ExcerptLength = DefaultExcerptLength
	}
	r := &Renderer{opts: opts}
	r.pool.New = func() any { return newGoldmark(opts.AllowHTML) }
	return r
}

func newGoldmark(allowHTML bool) goldmark.Markdown {
	rendererOpts := []renderer.Option{}
	if allowHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	} else {
		rendererOpts = append(rendererOpts, renderer.WithNodeRenderers(util.Prioritized(&escapedHTMLRenderer{}, 100)))
	}
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// Options returns the options the renderer was created with.
func (r *Renderer) Options() Options { return r.opts }

// Render converts body to HTML and derives its excerpt.
func (r *Renderer) Render(body []byte) (Rendered, error) {
	md := r.pool.Get().(goldmark.Markdown)
	defer r.pool.Put(md)

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return Rendered{}, err
	}
	out := buf.String()
	return Rendered{
		HTML:    out,
		Excerpt: Excerpt(out, r.opts.ExcerptLength),
	}, nil
}
