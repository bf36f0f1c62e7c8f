package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/sitebuilder/internal/contenthash"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
)

// DefaultExtensions are the source file extensions loaded when none are configured.
var DefaultExtensions = []string{".md", ".markdown"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errStopWalk = errors.New("stop walk")

// Candidate is an eligible source file found by discovery.
type Candidate struct {
	// Path is relative to the source root and slash separated.
	Path    string
	AbsPath string
}

// Loader discovers and reads markdown documents below a root directory.
type Loader struct {
	root       string
	extensions sets.Set[string]
}

// NewLoader creates a loader for root. Extensions are matched case-insensitively;
// DefaultExtensions apply when none are given.
func NewLoader(root string, extensions ...string) *Loader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := sets.New[string]()
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts.Add(e)
	}
	return &Loader{root: root, extensions: exts}
}

// Root returns the source root directory.
func (l *Loader) Root() string { return l.root }

// Candidates returns a lazy sequence of eligible files in lexical path order.
// Each range over the sequence walks the tree again. A walk failure is
// yielded once as a fatal error and ends the sequence.
func (l *Loader) Candidates(ctx context.Context) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if path == l.root {
				return nil
			}
			if isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if !l.extensions.Has(strings.ToLower(filepath.Ext(d.Name()))) {
				return nil
			}
			rel, err := filepath.Rel(l.root, path)
			if err != nil {
				return err
			}
			if !yield(Candidate{Path: filepath.ToSlash(rel), AbsPath: path}, nil) {
				return errStopWalk
			}
			return nil
		})
		if err == nil || errors.Is(err, errStopWalk) {
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			yield(Candidate{}, ferrors.WrapError(err, ferrors.CategoryCanceled, "discovery canceled").Fatal().Build())
			return
		}
		yield(Candidate{}, ferrors.WrapError(err, ferrors.CategoryNotFound, "walk source directory").
			Fatal().
			WithPath(l.root).
			Build())
	}
}

// Documents returns a lazy sequence loading each candidate in turn. Per-file
// failures are yielded with the error and the sequence continues.
func (l *Loader) Documents(ctx context.Context) iter.Seq2[*SourceDocument, error] {
	return func(yield func(*SourceDocument, error) bool) {
		for c, err := range l.Candidates(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(l.Load(c)) {
				return
			}
		}
	}
}

// Load reads and validates one candidate.
func (l *Loader) Load(c Candidate) (*SourceDocument, error) {
	raw, err := os.ReadFile(c.AbsPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "read source file").WithPath(c.Path).Build()
	}
	return Parse(c.Path, raw)
}

// Parse builds a SourceDocument from raw file bytes.
func Parse(path string, raw []byte) (*SourceDocument, error) {
	content := bytes.TrimPrefix(raw, utf8BOM)
	if off := invalidUTF8Offset(content); off >= 0 {
		return nil, ferrors.EncodingError(path, fmt.Sprintf("invalid UTF-8 byte sequence at offset %d", off)).
			WithContext(ferrors.ContextOffset, off).
			Build()
	}

	block, body, syntax, err := frontmatter.Split(content)
	if err != nil {
		return nil, ferrors.FrontMatterError(path, err).Build()
	}
	meta, err := frontmatter.Parse(block, syntax)
	if err != nil {
		return nil, ferrors.FrontMatterError(path, err).Build()
	}

	fields, err := extractFields(path, meta)
	if err != nil {
		return nil, err
	}

	fp, err := contenthash.SourceFingerprint(meta, body)
	if err != nil {
		return nil, ferrors.FrontMatterError(path, err).Build()
	}

	slog.Debug("Loaded document", logfields.Path(path), slog.Bool("draft", fields.Draft))
	return &SourceDocument{
		Path:        path,
		Body:        body,
		Meta:        meta,
		Fields:      fields,
		Syntax:      syntax,
		Fingerprint: fp,
	}, nil
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// isHidden reports dot files and underscore-prefixed system paths.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
