package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
}

func assertNoStaging(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(root))
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), filepath.Base(root)+".staging-") || e.Name() == filepath.Base(root)+".prev" {
			t.Fatalf("found leftover directory: %s", e.Name())
		}
	}
}

func TestWrite_CreatesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	assets := t.TempDir()
	writeTree(t, assets, map[string]string{"css/site.css": "body{}", "robots.txt": "ok"})

	res, err := Writer{Root: root}.Write(context.Background(), []File{
		{Path: "index.html", Data: []byte("home")},
		{Path: "hello/index.html", Data: []byte("hello")},
		{Path: "feed.xml", Data: []byte("<feed/>")},
	}, assets)
	require.NoError(t, err)

	require.Equal(t, "home", readFile(t, filepath.Join(root, "index.html")))
	require.Equal(t, "hello", readFile(t, filepath.Join(root, "hello", "index.html")))
	require.Equal(t, "body{}", readFile(t, filepath.Join(root, "css", "site.css")))
	require.Equal(t, Result{Pages: 3, Assets: 2, Changed: 3}, res)
	assertNoStaging(t, root)
}

func TestWrite_CleanRemovesStalePages(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	w := Writer{Root: root}
	_, err := w.Write(context.Background(), []File{
		{Path: "old/index.html", Data: []byte("old")},
		{Path: "keep/index.html", Data: []byte("keep")},
	}, "")
	require.NoError(t, err)

	res, err := w.Write(context.Background(), []File{{Path: "keep/index.html", Data: []byte("keep")}}, "")
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(root, "old", "index.html"))
	require.Equal(t, 1, res.Unchanged)
	require.Equal(t, 0, res.Changed)
	assertNoStaging(t, root)
}

func TestWrite_MergeKeepsPreviousFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	writeTree(t, root, map[string]string{"extra.txt": "extra", "hello/index.html": "v1"})

	res, err := Writer{Root: root, Policy: PolicyMerge}.Write(context.Background(), []File{
		{Path: "hello/index.html", Data: []byte("v2")},
	}, "")
	require.NoError(t, err)
	require.Equal(t, "extra", readFile(t, filepath.Join(root, "extra.txt")))
	require.Equal(t, "v2", readFile(t, filepath.Join(root, "hello", "index.html")))
	require.Equal(t, 2, res.Preserved)
	require.Equal(t, 1, res.Changed)
}

func TestWrite_PageShadowsAsset(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	assets := t.TempDir()
	writeTree(t, assets, map[string]string{"index.html": "asset"})

	res, err := Writer{Root: root}.Write(context.Background(), []File{{Path: "index.html", Data: []byte("page")}}, assets)
	require.NoError(t, err)
	require.Equal(t, "page", readFile(t, filepath.Join(root, "index.html")))
	require.Equal(t, 1, res.Shadowed)
	require.Equal(t, 0, res.Assets)
}

func TestWrite_CanceledKeepsOldOutput(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	w := Writer{Root: root}
	_, err := w.Write(context.Background(), []File{{Path: "index.html", Data: []byte("stable")}}, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Write(ctx, []File{{Path: "index.html", Data: []byte("broken")}}, "")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryCanceled))
	require.Equal(t, "stable", readFile(t, filepath.Join(root, "index.html")))
	assertNoStaging(t, root)
}

func TestWrite_FailureIsWriteError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	w := Writer{Root: root}
	_, err := w.Write(context.Background(), []File{{Path: "index.html", Data: []byte("stable")}}, "")
	require.NoError(t, err)

	// A file and a directory cannot share the path "a".
	_, err = w.Write(context.Background(), []File{
		{Path: "a", Data: []byte("file")},
		{Path: "a/index.html", Data: []byte("dir")},
	}, "")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryWrite))
	require.True(t, ferrors.HasSeverity(err, ferrors.SeverityFatal))
	require.Equal(t, "stable", readFile(t, filepath.Join(root, "index.html")))
	assertNoStaging(t, root)
}

func TestWrite_RejectsEscapingPaths(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	_, err := Writer{Root: root}.Write(context.Background(), []File{{Path: "../x", Data: nil}}, "")
	require.Error(t, err)
	require.NoDirExists(t, root)
}

func TestWrite_ManyFilesSharingDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "public")
	var files []File
	for i := range 200 {
		files = append(files, File{
			Path: filepath.ToSlash(filepath.Join("tags", string(rune('a'+i%5)), strings.Repeat("x", i%7+1)+".html")),
			Data: []byte{byte(i)},
		})
	}
	// Paths repeat, so keep only the last write of each.
	seen := map[string]File{}
	var unique []File
	for i := len(files) - 1; i >= 0; i-- {
		if _, ok := seen[files[i].Path]; ok {
			continue
		}
		seen[files[i].Path] = files[i]
		unique = append(unique, files[i])
	}

	res, err := Writer{Root: root, Workers: 8}.Write(context.Background(), unique, "")
	require.NoError(t, err)
	require.Equal(t, len(unique), res.Pages)
	for _, f := range unique {
		require.Equal(t, string(f.Data), readFile(t, filepath.Join(root, filepath.FromSlash(f.Path))))
	}
}

func TestDirMaker_Concurrent(t *testing.T) {
	base := t.TempDir()
	d := newDirMaker()
	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- d.ensure(filepath.Join(base, "x", string(rune('a'+i%3))))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, d.created, 3)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, PolicyClean, p)
	p, err = ParsePolicy("Merge")
	require.NoError(t, err)
	require.Equal(t, PolicyMerge, p)
	_, err = ParsePolicy("wipe")
	require.Error(t, err)
}
