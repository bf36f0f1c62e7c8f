package render

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

// Context is the data every template executes with.
type Context struct {
	Site SiteContext
	Page PageContext
}

// SiteContext holds site-wide values. It is built once per build and shared
// by every page.
type SiteContext struct {
	Title       string
	Description string
	BaseURL     string
	Language    string
	Author      string
	Revision    string
	// Navigation links standalone pages ordered by title.
	Navigation []Link
	Recent     []Summary
	Posts      []Summary
	Tags       []TagSummary
}

// PageContext describes the page being rendered.
type PageContext struct {
	Title      string
	Kind       string
	Permalink  string
	URL        string
	Date       time.Time
	Tags       []TagSummary
	TagNames   []string
	Content    template.HTML
	Excerpt    string
	SourcePath string
	Hash       string
	Params     map[string]string
	Prev       *Summary
	Next       *Summary
	// Tag is the tag name on per-tag listing pages.
	Tag     string
	Listing []Summary
}

// Link is a titled URL.
type Link struct {
	Title string
	URL   string
}

// Summary describes a page in listings and neighbour links.
type Summary struct {
	Title     string
	Permalink string
	URL       string
	Date      time.Time
	Excerpt   string
	Tags      []TagSummary
	// Count is the number of member pages of a listing page.
	Count int
}

// TagSummary describes a tag.
type TagSummary struct {
	Name  string
	Slug  string
	URL   string
	Count int
}

func newSiteContext(s *site.Site, recent int) SiteContext {
	st := s.Settings
	sc := SiteContext{
		Title:       st.Title,
		Description: st.Description,
		BaseURL:     st.BaseURL,
		Language:    st.Language,
		Author:      st.Author,
		Revision:    st.Revision,
		Navigation:  make([]Link, 0, len(s.Pages)),
		Recent:      summaries(s.Recent(recent)),
		Posts:       summaries(s.Posts),
		Tags:        tagSummaries(s.Tags),
	}
	for _, p := range s.Pages {
		sc.Navigation = append(sc.Navigation, Link{Title: p.Title, URL: p.Permalink.URL()})
	}
	return sc
}

func newPageContext(p *site.Page) PageContext {
	pc := PageContext{
		Title:      p.Title,
		Kind:       string(p.Kind),
		Permalink:  p.Permalink.String(),
		URL:        p.Permalink.URL(),
		Date:       p.Date,
		Tags:       tagSummaries(p.Tags),
		TagNames:   make([]string, 0, len(p.Tags)),
		Content:    template.HTML(p.Content.HTML), //nolint:gosec // rendered markdown, raw HTML escaped unless allowed
		Excerpt:    p.Content.Excerpt,
		SourcePath: p.SourcePath,
		Params:     p.Params,
		Listing:    summaries(p.Listing),
	}
	if pc.Params == nil {
		pc.Params = map[string]string{}
	}
	if !p.Hash.IsZero() {
		pc.Hash = p.Hash.Hex()
	}
	for _, t := range p.Tags {
		pc.TagNames = append(pc.TagNames, t.Name)
	}
	if p.Prev != nil {
		s := summarize(p.Prev)
		pc.Prev = &s
	}
	if p.Next != nil {
		s := summarize(p.Next)
		pc.Next = &s
	}
	if p.Tag != nil {
		pc.Tag = p.Tag.Name
	}
	return pc
}

func summarize(p *site.Page) Summary {
	return Summary{
		Title:     p.Title,
		Permalink: p.Permalink.String(),
		URL:       p.Permalink.URL(),
		Date:      p.Date,
		Excerpt:   p.Content.Excerpt,
		Tags:      tagSummaries(p.Tags),
		Count:     len(p.Listing),
	}
}

func summaries(pages []*site.Page) []Summary {
	out := make([]Summary, 0, len(pages))
	for _, p := range pages {
		out = append(out, summarize(p))
	}
	return out
}

func tagSummaries(tags []*site.Tag) []TagSummary {
	out := make([]TagSummary, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagSummary{
			Name:  t.Name,
			Slug:  t.Slug,
			URL:   t.Permalink.URL(),
			Count: len(t.Pages),
		})
	}
	return out
}
