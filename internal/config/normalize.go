package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
)

// normalize canonicalizes enumerated fields and trims whitespace from the
// free-form ones. Unknown enumeration values are configuration errors.
func normalize(cfg *Config) error {
	policy, err := output.ParsePolicy(string(cfg.Build.OutputPolicy))
	if err != nil {
		return invalid("build.output_policy", err)
	}
	cfg.Build.OutputPolicy = policy

	style, err := permalink.ParseStyle(string(cfg.Permalinks.Style))
	if err != nil {
		return invalid("permalinks.style", err)
	}
	cfg.Permalinks.Style = style

	cfg.Site.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/")
	cfg.Site.Language = strings.TrimSpace(cfg.Site.Language)

	exts := cfg.Paths.Extensions[:0]
	for _, ext := range cfg.Paths.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	cfg.Paths.Extensions = exts
	return nil
}

func invalid(field string, cause error) error {
	return ferrors.WrapError(cause, ferrors.CategoryConfig, "invalid configuration value").
		Fatal().
		WithContext(ferrors.ContextField, field).
		Build()
}
