package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	if cfg.Version != CurrentVersion {
		t.Errorf("version = %q", cfg.Version)
	}
	if cfg.Site.Title != DefaultTitle || cfg.Site.Language != DefaultLanguage {
		t.Errorf("site defaults = %+v", cfg.Site)
	}
	require.Equal(t, PathsConfig{
		Source:     DefaultSourceDir,
		Templates:  DefaultTemplateDir,
		Output:     DefaultOutputDir,
		Extensions: []string{".md", ".markdown"},
	}, cfg.Paths)
	require.Equal(t, output.PolicyClean, cfg.Build.OutputPolicy)
	require.Equal(t, permalink.StyleSlug, cfg.Permalinks.Style)
	require.Equal(t, permalink.DefaultHashLength, cfg.Permalinks.HashLength)
	require.True(t, cfg.Feed.IsEnabled())
	require.Equal(t, 20, cfg.Feed.Limit)
	require.Equal(t, 10, cfg.Build.RecentPosts)
}

func TestParse_Values(t *testing.T) {
	cfg, err := Parse([]byte(`
version: "1"
site:
  title: Field Notes
  base_url: https://notes.example.com/
  language: nb-NO
paths:
  source: docs
  output: dist
  extensions: [MD, ".txt"]
build:
  strict: true
  output_policy: " Merge "
  workers: 3
  allow_html: true
permalinks:
  style: slug-hash
  hash_length: 12
feed:
  enabled: false
`))
	require.NoError(t, err)

	require.Equal(t, "https://notes.example.com", cfg.Site.BaseURL)
	require.Equal(t, []string{".md", ".txt"}, cfg.Paths.Extensions)
	require.Equal(t, output.PolicyMerge, cfg.Build.OutputPolicy)
	require.Equal(t, permalink.StyleSlugHash, cfg.Permalinks.Style)
	require.False(t, cfg.Feed.IsEnabled())

	opts := cfg.PipelineOptions()
	require.True(t, opts.Strict)
	require.Equal(t, "docs", opts.SourceDir)
	require.Equal(t, "dist", opts.OutputDir)
	require.Equal(t, 3, opts.Workers)
	require.True(t, opts.Markdown.AllowHTML)
	require.Equal(t, 12, opts.Permalinks.HashLength)
	require.False(t, opts.Feed)
	require.Equal(t, "Field Notes", opts.Settings.Title)
	require.Equal(t, "nb-NO", opts.Settings.Language)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name     string
		yaml     string
		category ferrors.ErrorCategory
		field    string
	}{
		{"unknown key", "site:\n  titel: x\n", ferrors.CategoryConfig, ""},
		{"bad policy", "build:\n  output_policy: sync\n", ferrors.CategoryConfig, "build.output_policy"},
		{"bad style", "permalinks:\n  style: date\n", ferrors.CategoryConfig, "permalinks.style"},
		{"bad language", "site:\n  language: \"not a tag!\"\n", ferrors.CategoryConfig, "site.language"},
		{"relative base url", "site:\n  base_url: /blog\n", ferrors.CategoryValidation, "site.base_url"},
		{"ftp base url", "site:\n  base_url: ftp://example.com\n", ferrors.CategoryValidation, "site.base_url"},
		{"negative workers", "build:\n  workers: -1\n", ferrors.CategoryValidation, "build.workers"},
		{"too many workers", "build:\n  workers: 5000\n", ferrors.CategoryValidation, "build.workers"},
		{"short hash", "permalinks:\n  hash_length: 2\n", ferrors.CategoryValidation, "permalinks.hash_length"},
		{"negative feed limit", "feed:\n  limit: -5\n", ferrors.CategoryValidation, "feed.limit"},
		{"output is source", "paths:\n  source: site\n  output: ./site/\n", ferrors.CategoryValidation, "paths.output"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok, "unclassified error %v", err)
			if ce.Category() != tc.category {
				t.Errorf("category = %s, want %s", ce.Category(), tc.category)
			}
			if tc.field != "" {
				got, _ := ce.Context().GetString(ferrors.ContextField)
				if got != tc.field {
					t.Errorf("field = %q, want %q", got, tc.field)
				}
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, DefaultOutputDir, cfg.Paths.Output)

	_, err = Load(path, true)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	ce, _ := ferrors.AsClassified(err)
	require.Equal(t, path, ce.Path())
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SITEBUILDER_TEST_TITLE", "From Env")
	t.Cleanup(func() { _ = os.Unsetenv("SITEBUILDER_TEST_BASE") })

	require.NoError(t, os.WriteFile(".env", []byte("SITEBUILDER_TEST_TITLE=ignored\nSITEBUILDER_TEST_BASE=https://env.example.com\n"), 0o644))
	require.NoError(t, os.WriteFile(DefaultPath, []byte("site:\n  title: ${SITEBUILDER_TEST_TITLE}\n  base_url: ${SITEBUILDER_TEST_BASE}\n"), 0o644))

	cfg, err := Load("", true)
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
	require.Equal(t, "https://env.example.com", cfg.Site.BaseURL)
}

func TestLoad_DecodeErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [unclosed\n"), 0o644))

	_, err := Load(path, true)
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryConfig, ce.Category())
	require.Equal(t, path, ce.Path())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	require.Equal(t, Example(), cfg)

	err = Init(path, false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	require.NoError(t, Init(path, true))
}
