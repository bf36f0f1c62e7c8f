package markdown

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms separate their text from neighbouring text in excerpts.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Blockquote: true, atom.Pre: true, atom.Div: true, atom.Br: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Hr: true,
}

// Excerpt strips markup from an HTML fragment and truncates the text to at
// most limit characters on a word boundary. A limit <= 0 keeps the full text.
func Excerpt(fragment string, limit int) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			sb.WriteByte(' ')
		}
	}
	walk(doc)

	return truncateWords(strings.Fields(sb.String()), limit)
}

func truncateWords(words []string, limit int) string {
	if limit <= 0 {
		return strings.Join(words, " ")
	}
	var sb strings.Builder
	n := 0
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		sep := 0
		if n > 0 {
			sep = 1
		}
		if n+sep+wl > limit {
			if n == 0 {
				// A single word longer than the limit is cut.
				return string([]rune(w)[:limit])
			}
			break
		}
		if sep == 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w)
		n += sep + wl
	}
	return sb.String()
}
