// Package config loads and validates the sitebuilder.yaml configuration.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "sitebuilder.yaml"

// CurrentVersion is the configuration schema version written by Init.
const CurrentVersion = "1"

// Config is the complete build configuration.
type Config struct {
	Version    string          `yaml:"version"`
	Site       SiteConfig      `yaml:"site"`
	Paths      PathsConfig     `yaml:"paths"`
	Build      BuildConfig     `yaml:"build"`
	Permalinks PermalinkConfig `yaml:"permalinks"`
	Feed       FeedConfig      `yaml:"feed"`
	Reporting  ReportingConfig `yaml:"reporting"`
}

// SiteConfig holds site-wide values exposed to templates and the feed.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language"`
	Author      string `yaml:"author,omitempty"`
}

// PathsConfig locates the build inputs and output.
type PathsConfig struct {
	Source    string `yaml:"source"`
	Templates string `yaml:"templates"`
	// Static is copied verbatim into the output; empty for none.
	Static     string   `yaml:"static,omitempty"`
	Output     string   `yaml:"output"`
	Extensions []string `yaml:"extensions,omitempty"`
}

// BuildConfig controls build behavior.
type BuildConfig struct {
	Strict        bool          `yaml:"strict"`
	OutputPolicy  output.Policy `yaml:"output_policy"`
	Workers       int           `yaml:"workers"` // 0 uses GOMAXPROCS
	AllowHTML     bool          `yaml:"allow_html"`
	ExcerptLength int           `yaml:"excerpt_length"`
	RecentPosts   int           `yaml:"recent_posts"`
}

// PermalinkConfig selects permalink formation.
type PermalinkConfig struct {
	Style      permalink.Style `yaml:"style"`
	HashLength int             `yaml:"hash_length"`
}

// FeedConfig controls the Atom feed.
type FeedConfig struct {
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`
	Limit   int   `yaml:"limit"`
}

// IsEnabled reports whether the feed is generated.
func (f FeedConfig) IsEnabled() bool { return f.Enabled == nil || *f.Enabled }

// ReportingConfig names optional build artifacts.
type ReportingConfig struct {
	ReportFile  string `yaml:"report_file,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
	HistoryDB   string `yaml:"history_db,omitempty"`
}

// Load reads the configuration at path. Environment files are loaded first
// and ${VAR} references in the file are expanded. When explicit is false a
// missing file yields the defaults.
func Load(path string, explicit bool) (*Config, error) {
	loadEnvFiles()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
		return Finalize(&Config{})
	case errors.Is(err, fs.ErrNotExist):
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "configuration file not found").Fatal().
			WithPath(path).
			Build()
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").Fatal().
			WithPath(path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok && ce.Path() == "" {
			return nil, ce.WithContext(ferrors.ContextPath, path)
		}
		return nil, err
	}
	slog.Debug("Loaded configuration", logfields.Path(path))
	return cfg, nil
}

// Parse decodes YAML configuration and finalizes it. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Fatal().Build()
	}
	return Finalize(&cfg)
}

// Finalize normalizes enumerations, applies defaults and validates cfg.
// Flag overrides applied after Load should be followed by another Finalize.
func Finalize(cfg *Config) (*Config, error) {
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
