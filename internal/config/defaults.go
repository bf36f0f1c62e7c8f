package config

import (
	"git.home.luguber.info/inful/sitebuilder/internal/document"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// Default values applied to omitted fields.
const (
	DefaultTitle       = "My Site"
	DefaultLanguage    = "en"
	DefaultSourceDir   = "content"
	DefaultTemplateDir = "templates"
	DefaultOutputDir   = "public"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultTitle
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = DefaultLanguage
	}
}

type pathDefaults struct{}

func (pathDefaults) Domain() string { return "paths" }

func (pathDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Paths.Source == "" {
		cfg.Paths.Source = DefaultSourceDir
	}
	if cfg.Paths.Templates == "" {
		cfg.Paths.Templates = DefaultTemplateDir
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = DefaultOutputDir
	}
	if len(cfg.Paths.Extensions) == 0 {
		cfg.Paths.Extensions = append([]string(nil), document.DefaultExtensions...)
	}
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Build.ExcerptLength == 0 {
		cfg.Build.ExcerptLength = markdown.DefaultExcerptLength
	}
	if cfg.Build.RecentPosts == 0 {
		cfg.Build.RecentPosts = render.DefaultRecentPosts
	}
}

type permalinkDefaults struct{}

func (permalinkDefaults) Domain() string { return "permalinks" }

func (permalinkDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Permalinks.HashLength == 0 {
		cfg.Permalinks.HashLength = permalink.DefaultHashLength
	}
}

type feedDefaults struct{}

func (feedDefaults) Domain() string { return "feed" }

func (feedDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Feed.Limit == 0 {
		cfg.Feed.Limit = site.DefaultFeedLimit
	}
}

var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	pathDefaults{},
	buildDefaults{},
	permalinkDefaults{},
	feedDefaults{},
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}
