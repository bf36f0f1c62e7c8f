package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
)

const initHeader = `# sitebuilder configuration.
# Values of the form ${VAR} are expanded from the environment; .env.local and
# .env in the working directory are loaded first.
`

// Example returns the configuration written by Init.
func Example() *Config {
	enabled := true
	cfg := &Config{
		Version: CurrentVersion,
		Site: SiteConfig{
			Title:       DefaultTitle,
			Description: "Notes and articles",
			BaseURL:     "https://example.com",
			Language:    DefaultLanguage,
			Author:      "Site Author",
		},
		Paths: PathsConfig{
			Source:    DefaultSourceDir,
			Templates: DefaultTemplateDir,
			Static:    "static",
			Output:    DefaultOutputDir,
		},
		Build: BuildConfig{
			OutputPolicy: output.PolicyClean,
		},
		Permalinks: PermalinkConfig{Style: permalink.StyleSlug},
		Feed:       FeedConfig{Enabled: &enabled},
	}
	applyDefaults(cfg)
	return cfg
}

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithPath(path).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "stat configuration file").Fatal().WithPath(path).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example configuration").Fatal().Build()
	}
	if err := os.WriteFile(path, append([]byte(initHeader), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "write configuration file").Fatal().WithPath(path).Build()
	}
	return nil
}
