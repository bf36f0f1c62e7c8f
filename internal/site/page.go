// Package site assembles processed documents into the immutable site graph.
package site

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/contenthash"
	"git.home.luguber.info/inful/sitebuilder/internal/document"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
)

// PageKind classifies pages for template resolution.
type PageKind string

const (
	KindPost  PageKind = "post"
	KindPage  PageKind = "page"
	KindIndex PageKind = "index"
	KindTags  PageKind = "tags"
	KindTag   PageKind = "tag"
	KindFeed  PageKind = "feed"
)

// IsListing reports whether pages of this kind are generated listings.
func (k PageKind) IsListing() bool {
	return k == KindIndex || k == KindTags || k == KindTag
}

// Synthetic permalinks owned by generated pages.
const (
	HomePermalink     permalink.Permalink = ""
	TagIndexPermalink permalink.Permalink = "tags"
	FeedPermalink     permalink.Permalink = "feed.xml"
)

// Entry is one loaded, rendered and hashed document waiting for assembly.
type Entry struct {
	Doc     *document.SourceDocument
	Content markdown.Rendered
	Hash    contenthash.Digest
}

// Page is a unit of output.
type Page struct {
	Kind PageKind
	// SourcePath is empty for generated pages.
	SourcePath  string
	Title       string
	Date        time.Time
	Tags        []*Tag
	Template    string
	Permalink   permalink.Permalink
	Hash        contenthash.Digest
	Fingerprint string
	Content     markdown.Rendered
	Params      map[string]string

	// Listing holds the member pages of index and tag pages, newest first.
	Listing []*Page
	// Tag is set on per-tag listing pages.
	Tag *Tag
	// Prev is the next older post, Next the next newer one.
	Prev, Next *Page

	rawTags []string
}

// Label identifies the page in diagnostics: the source path, or the permalink for generated pages.
func (p *Page) Label() string {
	if p.SourcePath != "" {
		return p.SourcePath
	}
	return p.Permalink.URL()
}

// Tag groups the posts sharing one tag slug.
type Tag struct {
	Name      string
	Slug      string
	Permalink permalink.Permalink
	Pages     []*Page
}

// Settings are site-wide values exposed to templates and the feed.
type Settings struct {
	Title       string
	Description string
	BaseURL     string
	Language    string
	Author      string
	Revision    string
}

// AbsURL joins the base URL with a permalink URL.
func (s Settings) AbsURL(p permalink.Permalink) string {
	return strings.TrimRight(s.BaseURL, "/") + p.URL()
}
