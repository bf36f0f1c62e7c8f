package config

import (
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// PipelineOptions converts a finalized configuration into build options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		SourceDir:   c.Paths.Source,
		TemplateDir: c.Paths.Templates,
		StaticDir:   c.Paths.Static,
		OutputDir:   c.Paths.Output,
		Extensions:  append([]string(nil), c.Paths.Extensions...),
		Strict:      c.Build.Strict,
		Policy:      c.Build.OutputPolicy,
		Workers:     c.Build.Workers,
		Markdown: markdown.Options{
			AllowHTML:     c.Build.AllowHTML,
			ExcerptLength: c.Build.ExcerptLength,
		},
		Permalinks: permalink.Assigner{
			Style:      c.Permalinks.Style,
			HashLength: c.Permalinks.HashLength,
		},
		Feed:        c.Feed.IsEnabled(),
		FeedLimit:   c.Feed.Limit,
		RecentPosts: c.Build.RecentPosts,
		Settings: site.Settings{
			Title:       c.Site.Title,
			Description: c.Site.Description,
			BaseURL:     c.Site.BaseURL,
			Language:    c.Site.Language,
			Author:      c.Site.Author,
		},
	}
}
