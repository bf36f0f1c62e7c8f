package pipeline

import (
	"git.home.luguber.info/inful/sitebuilder/internal/document"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// Options configures one build.
type Options struct {
	SourceDir   string
	TemplateDir string
	// StaticDir is copied verbatim into the output; empty for none.
	StaticDir  string
	OutputDir  string
	Extensions []string

	// Strict aborts on the first error and writes nothing.
	Strict  bool
	Policy  output.Policy
	Workers int

	Markdown    markdown.Options
	Permalinks  permalink.Assigner
	Feed        bool
	FeedLimit   int
	RecentPosts int
	Settings    site.Settings
}

// DocResult is produced by one per-document worker: an entry ready for
// assembly, or the error that excluded the document.
type DocResult struct {
	Candidate document.Candidate
	Entry     *site.Entry
	Err       error
}

// BuildState carries data between stages. Each field is owned by the stage
// that fills it and read-only afterwards.
type BuildState struct {
	Options  Options
	Report   *Report
	Recorder metrics.Recorder

	Templates *render.Templates
	Entries   []site.Entry

	// Site is replaced by render_pages when pages fail under best-effort.
	Site      *site.Site
	Files     []output.File
	// fileKinds parallels Files with the page kind of each file.
	fileKinds []site.PageKind
}
