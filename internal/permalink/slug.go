// Package permalink derives URL-safe slugs and assigns unique permalinks.
package permalink

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Permalink is a slash-separated site path without leading or trailing
// slash. The empty permalink is the site root.
type Permalink string

// IsFile reports whether the permalink names a file (has an extension)
// rather than a directory page.
func (p Permalink) IsFile() bool { return path.Ext(string(p)) != "" }

// OutputPath returns the slash-separated file path below the output root.
func (p Permalink) OutputPath() string {
	switch {
	case p == "":
		return "index.html"
	case p.IsFile():
		return string(p)
	default:
		return string(p) + "/index.html"
	}
}

// URL returns the site-relative URL with leading slash.
func (p Permalink) URL() string {
	switch {
	case p == "":
		return "/"
	case p.IsFile():
		return "/" + string(p)
	default:
		return "/" + string(p) + "/"
	}
}

func (p Permalink) String() string { return string(p) }

// Slugify lower-cases s, folds accented letters to their base letter and
// replaces every run of other characters with a single hyphen.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return sb.String()
}
