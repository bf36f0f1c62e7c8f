package frontmatter

import (
	"bytes"
	"errors"
)

// Syntax identifies the metadata block format of a document.
type Syntax string

const (
	SyntaxNone Syntax = ""
	SyntaxYAML Syntax = "yaml"
	SyntaxTOML Syntax = "toml"
)

// Style captures the newline shape of the source document.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

type delimiter struct {
	marker string
	syntax Syntax
}

var delimiters = []delimiter{
	{marker: "---", syntax: SyntaxYAML},
	{marker: "+++", syntax: SyntaxTOML},
}

// ErrMissingClosingDelimiter indicates the document opened a metadata block
// but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates a leading metadata block from the Markdown body.
//
// YAML blocks are delimited by `---` lines and TOML blocks by `+++` lines.
// If the document does not start with a delimiter, syntax is SyntaxNone and
// body is the full input.
func Split(content []byte) (block []byte, body []byte, syntax Syntax, err error) {
	style := DetectStyle(content)
	nl := style.Newline

	for _, d := range delimiters {
		open := []byte(d.marker + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}
		rest := content[len(open):]

		closeLine := []byte(d.marker + nl)
		if bytes.HasPrefix(rest, closeLine) {
			return []byte{}, rest[len(closeLine):], d.syntax, nil
		}
		if bytes.Equal(rest, []byte(d.marker)) {
			return []byte{}, []byte{}, d.syntax, nil
		}

		closeSeq := []byte(nl + d.marker + nl)
		if idx := bytes.Index(rest, closeSeq); idx >= 0 {
			return rest[:idx+len(nl)], rest[idx+len(closeSeq):], d.syntax, nil
		}
		// Closing delimiter on the last line without a trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+d.marker)) {
			return rest[:len(rest)-len(d.marker)], []byte{}, d.syntax, nil
		}
		return nil, nil, d.syntax, ErrMissingClosingDelimiter
	}
	return nil, content, SyntaxNone, nil
}

// Parse decodes a metadata block of the given syntax.
func Parse(block []byte, syntax Syntax) (Metadata, error) {
	switch syntax {
	case SyntaxYAML:
		return ParseYAML(block)
	case SyntaxTOML:
		return ParseTOML(block)
	default:
		return Metadata{}, nil
	}
}

// DetectStyle reports the first newline sequence used by content.
func DetectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
