package site

import (
	"cmp"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/sitebuilder/internal/contenthash"
	"git.home.luguber.info/inful/sitebuilder/internal/document"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/permalink"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
)

// DefaultFeedLimit is the number of feed entries when none is configured.
const DefaultFeedLimit = 20

// Options controls assembly.
type Options struct {
	Permalinks permalink.Assigner
	Feed       bool
	FeedLimit  int
}

// Build assembles the site from every processed document, drafts included.
// Drafts are counted and left out. It runs on a single goroutine and fails
// with a fatal collision error if two pages end up sharing a permalink.
func Build(settings Settings, entries []Entry, opts Options) (*Site, Stats, error) {
	var stats Stats
	live := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Doc.Fields.Draft {
			stats.Drafts++
			slog.Debug("Skipping draft", logfields.Path(e.Doc.Path))
			continue
		}
		live = append(live, e)
	}

	links, err := assignPermalinks(live, opts.Permalinks)
	if err != nil {
		return nil, stats, err
	}

	var posts, pages []*Page
	for _, e := range live {
		p := newContentPage(e, links[e.Doc.Path])
		if e.Doc.Fields.Kind == document.KindPage {
			p.Kind = KindPage
			pages = append(pages, p)
			continue
		}
		posts = append(posts, p)
	}
	s := assemble(settings, posts, pages, opts)

	stats.Posts = len(s.Posts)
	stats.Pages = len(s.Pages)
	stats.Synthetic = 2 + len(s.TagPages)
	if s.Feed != nil {
		stats.Synthetic++
	}

	if err := checkUnique(s.AllPages()); err != nil {
		return nil, stats, err
	}
	return s, stats, nil
}

// assemble orders the content pages, links neighbours, groups tags and
// builds the synthetic listings. Content pages must not carry links yet.
func assemble(settings Settings, posts, pages []*Page, opts Options) *Site {
	s := &Site{Settings: settings, Posts: posts, Pages: pages, opts: opts, tagsBySlug: make(map[string]*Tag)}

	slices.SortStableFunc(s.Posts, chronological)
	slices.SortStableFunc(s.Pages, func(a, b *Page) int {
		if c := cmp.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.SourcePath, b.SourcePath)
	})
	linkNeighbours(s.Posts)

	// Tags are attached after sorting so every tag lists posts newest first.
	for _, p := range s.Posts {
		p.Tags = s.attachTags(p, p.rawTags)
	}
	for _, p := range s.Pages {
		p.Tags = s.attachTags(p, p.rawTags)
	}
	for _, t := range s.Tags {
		slices.SortStableFunc(t.Pages, chronological)
	}
	slices.SortFunc(s.Tags, func(a, b *Tag) int { return cmp.Compare(a.Slug, b.Slug) })

	s.buildListings(opts)
	return s
}

// Without returns a new site leaving out the content pages whose source paths
// are in drop. Remaining pages keep their permalinks; neighbours, tags and
// listings are rebuilt. s itself is not modified.
func (s *Site) Without(drop sets.Set[string]) *Site {
	keep := func(in []*Page) []*Page {
		out := make([]*Page, 0, len(in))
		for _, p := range in {
			if drop.Has(p.SourcePath) {
				continue
			}
			c := *p
			c.Prev, c.Next, c.Tags = nil, nil, nil
			out = append(out, &c)
		}
		return out
	}
	return assemble(s.Settings, keep(s.Posts), keep(s.Pages), s.opts)
}

func assignPermalinks(entries []Entry, assigner permalink.Assigner) (map[string]permalink.Permalink, error) {
	cands := make([]permalink.Candidate, 0, len(entries))
	for _, e := range entries {
		base := e.Doc.Fields.Slug
		if base == "" {
			base = e.Doc.Fields.Title
		}
		cands = append(cands, permalink.Candidate{
			Key:  e.Doc.Path,
			Slug: permalink.Slugify(base),
			Hash: e.Hash,
			Date: e.Doc.Fields.Date,
		})
	}
	return assigner.Assign(cands, sets.New(string(TagIndexPermalink)))
}

func newContentPage(e Entry, link permalink.Permalink) *Page {
	f := e.Doc.Fields
	content := e.Content
	if f.Summary != "" {
		content.Excerpt = f.Summary
	}
	return &Page{
		Kind:        KindPost,
		SourcePath:  e.Doc.Path,
		Title:       f.Title,
		Date:        f.Date,
		Template:    f.Template,
		Permalink:   link,
		Hash:        e.Hash,
		Fingerprint: e.Doc.Fingerprint,
		Content:     content,
		Params:      e.Doc.Params(),
		rawTags:     f.Tags,
	}
}

// chronological orders newest first, then by source path.
func chronological(a, b *Page) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.SourcePath, b.SourcePath)
}

func linkNeighbours(posts []*Page) {
	for i, p := range posts {
		if i > 0 {
			p.Next = posts[i-1]
		}
		if i+1 < len(posts) {
			p.Prev = posts[i+1]
		}
	}
}

// attachTags resolves tag names to shared Tag values and records member on each.
func (s *Site) attachTags(member *Page, names []string) []*Tag {
	var out []*Tag
	for _, name := range names {
		slug := permalink.Slugify(name)
		if slug == "" {
			d, _ := contenthash.Compute(nil, []byte(name))
			slug = d.Short(permalink.DefaultHashLength)
		}
		t, ok := s.tagsBySlug[slug]
		if !ok {
			t = &Tag{Name: name, Slug: slug, Permalink: permalink.Permalink("tags/" + slug)}
			s.tagsBySlug[slug] = t
			s.Tags = append(s.Tags, t)
		} else if name < t.Name {
			t.Name = name
		}
		if slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
		t.Pages = append(t.Pages, member)
	}
	return out
}

func (s *Site) buildListings(opts Options) {
	s.Home = &Page{
		Kind:      KindIndex,
		Title:     s.Settings.Title,
		Permalink: HomePermalink,
		Listing:   s.Posts,
	}
	if len(s.Posts) > 0 {
		s.Home.Date = s.Posts[0].Date
	}

	s.TagPages = make([]*Page, 0, len(s.Tags))
	for _, t := range s.Tags {
		p := &Page{
			Kind:      KindTag,
			Title:     t.Name,
			Permalink: t.Permalink,
			Listing:   t.Pages,
			Tag:       t,
		}
		if len(t.Pages) > 0 {
			p.Date = t.Pages[0].Date
		}
		s.TagPages = append(s.TagPages, p)
	}
	s.TagIndex = &Page{
		Kind:      KindTags,
		Title:     "Tags",
		Permalink: TagIndexPermalink,
		Listing:   s.TagPages,
		Date:      s.Home.Date,
	}

	if opts.Feed {
		limit := opts.FeedLimit
		if limit <= 0 {
			limit = DefaultFeedLimit
		}
		s.Feed = &Page{
			Kind:      KindFeed,
			Title:     s.Settings.Title,
			Permalink: FeedPermalink,
			Listing:   s.Recent(limit),
			Date:      s.Home.Date,
		}
	}
}

func checkUnique(pages []*Page) error {
	owner := make(map[permalink.Permalink]*Page, len(pages))
	for _, p := range pages {
		if prev, dup := owner[p.Permalink]; dup {
			return ferrors.CollisionError(p.Permalink.String(), prev.Label(), p.Label()).
				WithPath(p.Label()).
				Build()
		}
		owner[p.Permalink] = p
	}
	return nil
}
