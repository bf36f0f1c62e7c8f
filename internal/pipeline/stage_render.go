package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
)

// stageRenderPages renders every template page and the feed into output files,
// keeping page order. Content pages whose template fails are dropped from the
// site and the rest are rendered again, so listings, neighbour links and the
// feed only refer to pages that exist. Listings are rendered last.
func stageRenderPages(ctx context.Context, bs *BuildState) error {
	workers := workerCount(bs.Options.Workers)
	var (
		r       *render.Renderer
		content []render.Result
	)
	for {
		var err error
		if r, err = bs.newRenderer(); err != nil {
			return err
		}
		if content, err = r.RenderAll(ctx, bs.Site.ContentPages(), workers); err != nil {
			return err
		}
		failed := sets.New[string]()
		for _, res := range content {
			if res.Err != nil {
				bs.skipPage(res)
				failed.Add(res.Page.SourcePath)
			}
		}
		if len(failed) == 0 {
			break
		}
		bs.Site = bs.Site.Without(failed)
	}

	listings, err := r.RenderAll(ctx, bs.Site.ListingPages(), workers)
	if err != nil {
		return err
	}
	for _, res := range append(content, listings...) {
		if res.Err != nil {
			bs.skipPage(res)
			continue
		}
		bs.addFile(res.Page, res.Body)
	}

	feed, err := site.RenderFeed(bs.Site)
	if err != nil {
		return err
	}
	if feed != nil {
		bs.addFile(bs.Site.Feed, feed)
	}
	return nil
}

func (bs *BuildState) newRenderer() (*render.Renderer, error) {
	return render.NewRenderer(bs.Templates, bs.Site, render.Options{
		Strict:      bs.Options.Strict,
		RecentPosts: bs.Options.RecentPosts,
	})
}

func (bs *BuildState) skipPage(res render.Result) {
	slog.Warn("Page skipped", logfields.Path(res.Page.Label()), logfields.Error(res.Err))
	bs.Report.AddIssue(StageRenderPages, res.Err)
}

func (bs *BuildState) addFile(p *site.Page, body []byte) {
	bs.Files = append(bs.Files, output.File{Path: p.Permalink.OutputPath(), Data: body})
	bs.fileKinds = append(bs.fileKinds, p.Kind)
}
