package render

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"runtime"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"golang.org/x/sync/errgroup"
)

// DefaultRecentPosts is the length of SiteContext.Recent when not configured.
const DefaultRecentPosts = 10

// Options controls page rendering.
type Options struct {
	// Strict aborts RenderAll on the first failing page.
	Strict      bool
	RecentPosts int
}

// Renderer executes templates for the pages of one site. It is safe for
// concurrent use.
type Renderer struct {
	templates *Templates
	set       *template.Template
	site      SiteContext
	strict    bool
}

// Result is the outcome of rendering one page.
type Result struct {
	Page     *site.Page
	Template string
	Body     []byte
	Err      error
}

// NewRenderer binds a template set to a site. Template functions that need
// site settings, such as absURL, are bound here.
func NewRenderer(t *Templates, s *site.Site, opts Options) (*Renderer, error) {
	set, err := t.set.Clone()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "clone template set").Fatal().Build()
	}
	// Clone drops the missingkey option.
	set.Option(missingKeyOption).Funcs(funcMap(s.Settings))

	recent := opts.RecentPosts
	if recent <= 0 {
		recent = DefaultRecentPosts
	}
	return &Renderer{
		templates: t,
		set:       set,
		site:      newSiteContext(s, recent),
		strict:    opts.Strict,
	}, nil
}

// Render executes the resolved template for p and returns the page bytes
// together with the template name.
func (r *Renderer) Render(p *site.Page) ([]byte, string, error) {
	name, err := r.templates.Resolve(p)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	data := Context{Site: r.site, Page: newPageContext(p)}
	if err := r.set.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, name, ferrors.TemplateRenderError(p.Label(), name, err).Build()
	}
	return buf.Bytes(), name, nil
}

// RenderAll renders pages on up to workers goroutines and returns one Result
// per page in input order. In strict mode the first failure cancels the
// remaining work and is returned. Otherwise failures are reported on their
// Result and the returned error is only set when ctx is canceled.
func (r *Renderer) RenderAll(ctx context.Context, pages []*site.Page, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			body, name, err := r.Render(p)
			results[i] = Result{Page: p, Template: name, Body: body, Err: err}
			if err == nil {
				slog.Debug("Rendered page",
					logfields.Permalink(p.Permalink.String()),
					logfields.Template(name))
				return nil
			}
			if r.strict {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil && !ferrors.IsClassified(err) {
			return results, canceled(ctx.Err())
		}
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, canceled(err)
	}
	return results, nil
}

func canceled(err error) error {
	return ferrors.WrapError(err, ferrors.CategoryCanceled, "rendering canceled").Fatal().Build()
}
