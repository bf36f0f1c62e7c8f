package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func collectPaths(t *testing.T, l *Loader) []string {
	t.Helper()
	var out []string
	for c, err := range l.Candidates(context.Background()) {
		require.NoError(t, err)
		out = append(out, c.Path)
	}
	return out
}

func TestCandidates_FiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.md", "x")
	writeFile(t, root, "a.md", "x")
	writeFile(t, root, "nested/deep/c.MD", "x")
	writeFile(t, root, "notes.txt", "x")
	writeFile(t, root, ".hidden.md", "x")
	writeFile(t, root, ".git/config.md", "x")
	writeFile(t, root, "_drafts/d.md", "x")
	writeFile(t, root, "guide.markdown", "x")

	l := NewLoader(root)
	paths := collectPaths(t, l)
	require.Equal(t, []string{"a.md", "b.md", "guide.markdown", "nested/deep/c.MD"}, paths)

	// Restartable: a second range walks again with the same result.
	require.Equal(t, paths, collectPaths(t, l))
}

func TestCandidates_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "x")
	writeFile(t, root, "b.mdx", "x")

	require.Equal(t, []string{"b.mdx"}, collectPaths(t, NewLoader(root, "mdx")))
}

func TestCandidates_EarlyBreak(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "x")
	writeFile(t, root, "b.md", "x")

	n := 0
	for _, err := range NewLoader(root).Candidates(context.Background()) {
		require.NoError(t, err)
		n++
		break
	}
	require.Equal(t, 1, n)
}

func TestCandidates_MissingRoot(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "nope"))
	var errs []error
	for _, err := range l.Candidates(context.Background()) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	require.True(t, ferrors.HasSeverity(errs[0], ferrors.SeverityFatal))
}

func TestCandidates_Canceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var last error
	for _, err := range NewLoader(root).Candidates(ctx) {
		last = err
	}
	require.True(t, ferrors.HasCategory(last, ferrors.CategoryCanceled))
}

func TestParse_ValidDocument(t *testing.T) {
	doc, err := Parse("a.md", []byte("---\ntitle: Hello\ndate: 2024-01-01\ntags: [go, go, ' web ']\nauthor: me\n---\n# Hi\n\nWorld"))
	require.NoError(t, err)
	require.Equal(t, "a.md", doc.Path)
	require.Equal(t, "Hello", doc.Fields.Title)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), doc.Fields.Date)
	require.Equal(t, []string{"go", "web"}, doc.Fields.Tags)
	require.Equal(t, KindPost, doc.Fields.Kind)
	require.False(t, doc.Fields.Draft)
	require.Equal(t, "# Hi\n\nWorld", string(doc.Body))
	require.Equal(t, map[string]string{"author": "me"}, doc.Params())
	require.NotEmpty(t, doc.Fingerprint)
}

func TestParse_TOMLAndOptionalFields(t *testing.T) {
	src := "+++\ntitle = \"About\"\ndate = \"2024-03-01T08:00:00Z\"\nkind = \"Page\"\ndraft = true\ntemplate = \"wide\"\nslug = \"about-us\"\nsummary = \"Who we are\"\n+++\nBody\n"
	doc, err := Parse("about.md", []byte(src))
	require.NoError(t, err)
	require.Equal(t, KindPage, doc.Fields.Kind)
	require.True(t, doc.Fields.Draft)
	require.Equal(t, "wide", doc.Fields.Template)
	require.Equal(t, "about-us", doc.Fields.Slug)
	require.Equal(t, "Who we are", doc.Fields.Summary)
	require.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), doc.Fields.Date)
}

func TestParse_BOMIsStripped(t *testing.T) {
	doc, err := Parse("bom.md", append([]byte{0xEF, 0xBB, 0xBF}, []byte("---\ntitle: T\ndate: 2024-01-01\n---\nx")...))
	require.NoError(t, err)
	require.Equal(t, "T", doc.Fields.Title)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name     string
		src      []byte
		category ferrors.ErrorCategory
	}{
		{"invalid utf8", []byte("---\ntitle: \xff\n---\n"), ferrors.CategoryEncoding},
		{"unclosed block", []byte("---\ntitle: x\n"), ferrors.CategoryFrontMatter},
		{"unparseable yaml", []byte("---\ntitle: [x\n---\n"), ferrors.CategoryFrontMatter},
		{"title wrong type", []byte("---\ntitle: [a]\ndate: 2024-01-01\n---\n"), ferrors.CategoryFrontMatter},
		{"bad date", []byte("---\ntitle: x\ndate: someday\n---\n"), ferrors.CategoryFrontMatter},
		{"draft as string", []byte("---\ntitle: x\ndate: 2024-01-01\ndraft: \"yes\"\n---\n"), ferrors.CategoryFrontMatter},
		{"unknown kind", []byte("---\ntitle: x\ndate: 2024-01-01\nkind: essay\n---\n"), ferrors.CategoryFrontMatter},
		{"missing date", []byte("---\ntitle: x\n---\n"), ferrors.CategoryMissingField},
		{"blank title", []byte("---\ntitle: \"  \"\ndate: 2024-01-01\n---\n"), ferrors.CategoryMissingField},
		{"no front matter", []byte("# just markdown\n"), ferrors.CategoryMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("x.md", tc.src)
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, tc.category), "got %v", err)
			c, _ := ferrors.AsClassified(err)
			require.Equal(t, "x.md", c.Path())
		})
	}
}

func TestParse_MissingFieldsListed(t *testing.T) {
	_, err := Parse("x.md", []byte("no metadata"))
	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	fields, _ := c.Context().Get(ferrors.ContextField)
	require.Equal(t, []string{"title", "date"}, fields)
}

func TestDocuments_ContinuesPastBadFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "---\ntitle: A\ndate: 2024-01-01\n---\nA")
	writeFile(t, root, "b.md", "---\ntitle: [\n---\nB")
	writeFile(t, root, "c.md", "---\ntitle: C\ndate: 2024-01-03\n---\nC")

	var ok, failed []string
	for doc, err := range NewLoader(root).Documents(context.Background()) {
		if err != nil {
			c, _ := ferrors.AsClassified(err)
			failed = append(failed, c.Path())
			continue
		}
		ok = append(ok, doc.Path)
	}
	require.Equal(t, []string{"a.md", "c.md"}, ok)
	require.Equal(t, []string{"b.md"}, failed)
}
