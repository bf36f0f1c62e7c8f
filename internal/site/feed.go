package site

import (
	"bytes"
	"encoding/xml"
	"time"
)

const atomNS = "http://www.w3.org/2005/Atom"

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	NS      string      `xml:"xmlns,attr"`
	Lang    string      `xml:"xml:lang,attr,omitempty"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Author  *atomAuthor `xml:"author,omitempty"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

type atomEntry struct {
	Title      string         `xml:"title"`
	ID         string         `xml:"id"`
	Updated    string         `xml:"updated"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
	Summary    string         `xml:"summary,omitempty"`
	Content    atomContent    `xml:"content"`
}

// RenderFeed encodes the feed page as an Atom 1.0 document. The feed's
// updated time is the newest entry's date so unchanged sources produce
// identical bytes.
func RenderFeed(s *Site) ([]byte, error) {
	feed := s.Feed
	if feed == nil {
		return nil, nil
	}

	doc := atomFeed{
		NS:      atomNS,
		Lang:    s.Settings.Language,
		Title:   s.Settings.Title,
		ID:      s.Settings.AbsURL(HomePermalink),
		Updated: atomTime(feed.Date),
		Links: []atomLink{
			{Href: s.Settings.AbsURL(FeedPermalink), Rel: "self"},
			{Href: s.Settings.AbsURL(HomePermalink)},
		},
	}
	if s.Settings.Author != "" {
		doc.Author = &atomAuthor{Name: s.Settings.Author}
	}
	for _, p := range feed.Listing {
		entry := atomEntry{
			Title:   p.Title,
			ID:      s.Settings.AbsURL(p.Permalink),
			Updated: atomTime(p.Date),
			Links:   []atomLink{{Href: s.Settings.AbsURL(p.Permalink)}},
			Summary: p.Content.Excerpt,
			Content: atomContent{Type: "html", Body: p.Content.HTML},
		}
		for _, t := range p.Tags {
			entry.Categories = append(entry.Categories, atomCategory{Term: t.Name})
		}
		doc.Entries = append(doc.Entries, entry)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func atomTime(t time.Time) string {
	if t.IsZero() {
		t = time.Unix(0, 0)
	}
	return t.UTC().Format(time.RFC3339)
}
