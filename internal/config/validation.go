package config

import (
	"fmt"
	"net/url"
	"path/filepath"

	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
)

// Limits enforced by validate.
const (
	MaxWorkers    = 1024
	MaxHashLength = 64
)

// validate runs the per-domain checks in order and returns the first failure.
func validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateSite,
		validatePaths,
		validateBuild,
		validatePermalinks,
		validateFeed,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateSite(cfg *Config) error {
	if _, err := language.Parse(cfg.Site.Language); err != nil {
		return invalid("site.language", err)
	}
	if cfg.Site.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil {
		return invalid("site.base_url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fieldError("site.base_url", fmt.Sprintf("base URL %q must be an absolute http or https URL", cfg.Site.BaseURL))
	}
	return nil
}

func validatePaths(cfg *Config) error {
	p := cfg.Paths
	switch {
	case p.Source == "":
		return fieldError("paths.source", "source directory is required")
	case p.Templates == "":
		return fieldError("paths.templates", "template directory is required")
	case p.Output == "":
		return fieldError("paths.output", "output directory is required")
	}
	out := filepath.Clean(p.Output)
	for _, d := range []struct{ field, dir string }{
		{"paths.source", p.Source},
		{"paths.templates", p.Templates},
		{"paths.static", p.Static},
	} {
		if d.dir != "" && filepath.Clean(d.dir) == out {
			return fieldError("paths.output", fmt.Sprintf("output directory must differ from %s", d.field))
		}
	}
	return nil
}

func validateBuild(cfg *Config) error {
	b := cfg.Build
	switch {
	case b.Workers < 0 || b.Workers > MaxWorkers:
		return fieldError("build.workers", fmt.Sprintf("workers must be between 0 and %d", MaxWorkers))
	case b.ExcerptLength < 0:
		return fieldError("build.excerpt_length", "excerpt length must not be negative")
	case b.RecentPosts < 0:
		return fieldError("build.recent_posts", "recent posts must not be negative")
	}
	return nil
}

func validatePermalinks(cfg *Config) error {
	n := cfg.Permalinks.HashLength
	if n < permalink.MinHashLength || n > MaxHashLength {
		return fieldError("permalinks.hash_length", fmt.Sprintf("hash length must be between %d and %d", permalink.MinHashLength, MaxHashLength))
	}
	return nil
}

func validateFeed(cfg *Config) error {
	if cfg.Feed.Limit < 0 {
		return fieldError("feed.limit", "feed limit must not be negative")
	}
	return nil
}

func fieldError(field, message string) error {
	return ferrors.ValidationError(message).WithContext(ferrors.ContextField, field).Build()
}
