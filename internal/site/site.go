package site

import "slices"

// Site is the aggregate of one build. It is not modified after Build returns.
type Site struct {
	Settings Settings
	// Posts are ordered newest first, ties broken by source path.
	Posts []*Page
	// Pages are standalone pages ordered by title, used for navigation.
	Pages []*Page
	// Tags are ordered by slug; TagPages[i] lists Tags[i].
	Tags     []*Tag
	TagPages []*Page
	Home     *Page
	TagIndex *Page
	// Feed is nil when the feed is disabled.
	Feed *Page

	opts       Options
	tagsBySlug map[string]*Tag
}

// Stats counts what assembly included and skipped.
type Stats struct {
	Drafts    int
	Posts     int
	Pages     int
	Synthetic int
}

// Recent returns at most n of the newest posts.
func (s *Site) Recent(n int) []*Page {
	if n <= 0 || n > len(s.Posts) {
		n = len(s.Posts)
	}
	return s.Posts[:n]
}

// TagBySlug looks up a tag.
func (s *Site) TagBySlug(slug string) (*Tag, bool) {
	t, ok := s.tagsBySlug[slug]
	return t, ok
}

// TemplatePages returns every page rendered through templates: posts, standalone
// pages, the home page, the tag index and per-tag pages.
func (s *Site) TemplatePages() []*Page {
	out := make([]*Page, 0, len(s.Posts)+len(s.Pages)+len(s.TagPages)+2)
	out = append(out, s.Posts...)
	out = append(out, s.Pages...)
	out = append(out, s.Home, s.TagIndex)
	out = append(out, s.TagPages...)
	return out
}

// ContentPages returns the posts followed by the standalone pages.
func (s *Site) ContentPages() []*Page {
	return append(slices.Clip(s.Posts), s.Pages...)
}

// ListingPages returns the home page, the tag index and the per-tag pages.
func (s *Site) ListingPages() []*Page {
	out := make([]*Page, 0, len(s.TagPages)+2)
	out = append(out, s.Home, s.TagIndex)
	return append(out, s.TagPages...)
}

// AllPages returns TemplatePages plus the feed when enabled.
func (s *Site) AllPages() []*Page {
	out := s.TemplatePages()
	if s.Feed != nil {
		out = append(out, s.Feed)
	}
	return out
}
