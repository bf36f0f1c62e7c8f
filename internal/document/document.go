// Package document discovers markdown sources and loads them into validated
// SourceDocument values.
package document

import (
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// Kind distinguishes dated posts from standalone pages.
type Kind string

const (
	KindPost Kind = "post"
	KindPage Kind = "page"
)

var kindNormalizer = normalization.NewNormalizer(map[string]Kind{
	"post": KindPost,
	"page": KindPage,
}, KindPost)

// Recognized front-matter keys.
const (
	KeyTitle    = "title"
	KeyDate     = "date"
	KeyTags     = "tags"
	KeyDraft    = "draft"
	KeyTemplate = "template"
	KeySlug     = "slug"
	KeyKind     = "kind"
	KeySummary  = "summary"
)

// Fields holds the validated, typed view of the recognized keys.
type Fields struct {
	Title    string
	Date     time.Time
	Tags     []string
	Draft    bool
	Template string
	Slug     string
	Kind     Kind
	Summary  string
}

// SourceDocument is one loaded markdown file. It is not modified after Load returns.
type SourceDocument struct {
	// Path is relative to the source root and slash separated.
	Path        string
	Body        []byte
	Meta        frontmatter.Metadata
	Fields      Fields
	Syntax      frontmatter.Syntax
	Fingerprint string
}

// Params returns the metadata keys that have no typed field, rendered as strings.
func (d *SourceDocument) Params() map[string]string {
	out := make(map[string]string)
	for _, k := range d.Meta.Keys() {
		switch k {
		case KeyTitle, KeyDate, KeyTags, KeyDraft, KeyTemplate, KeySlug, KeyKind, KeySummary:
			continue
		}
		out[k] = d.Meta[k].String()
	}
	return out
}
