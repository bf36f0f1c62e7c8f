package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

func stageAssembleSite(_ context.Context, bs *BuildState) error {
	s, stats, err := site.Build(bs.Options.Settings, bs.Entries, site.Options{
		Permalinks: bs.Options.Permalinks,
		Feed:       bs.Options.Feed,
		FeedLimit:  bs.Options.FeedLimit,
	})
	bs.Report.Drafts = stats.Drafts
	if err != nil {
		return err
	}
	bs.Site = s
	bs.Report.Posts = stats.Posts
	bs.Report.Pages = stats.Pages
	bs.Report.Synthetic = stats.Synthetic
	slog.Info("Assembled site",
		slog.Int("posts", stats.Posts),
		slog.Int("pages", stats.Pages),
		slog.Int("tags", len(s.Tags)),
		slog.Int("drafts", stats.Drafts))
	for _, t := range s.Tags {
		slog.Debug("Tag", logfields.Permalink(t.Permalink.String()), logfields.Count(len(t.Pages)))
	}
	return nil
}
