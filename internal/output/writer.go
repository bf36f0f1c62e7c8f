// Package output lays out a built site on disk and promotes it atomically.
package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Policy decides what happens to files of the previous build.
type Policy string

const (
	// PolicyClean starts from an empty tree so removed sources leave nothing behind.
	PolicyClean Policy = "clean"
	// PolicyMerge keeps files of the previous output that this build does not produce.
	PolicyMerge Policy = "merge"
)

var policyNormalizer = normalization.NewNormalizer(map[string]Policy{
	"clean": PolicyClean,
	"merge": PolicyMerge,
}, PolicyClean)

// ParsePolicy validates a configured policy name. Blank selects PolicyClean.
func ParsePolicy(raw string) (Policy, error) {
	return policyNormalizer.Parse("output policy", raw)
}

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o644
)

// File is one generated output file.
type File struct {
	// Path is slash separated and relative to the output root.
	Path string
	Data []byte
}

// Result counts what a Write produced.
type Result struct {
	Pages     int
	Assets    int
	Preserved int
	Changed   int
	Unchanged int
	// Shadowed counts static assets replaced by a generated page at the same path.
	Shadowed int
}

// Writer writes a complete output tree into a staging directory next to Root
// and renames it into place once every file is on disk.
type Writer struct {
	Root    string
	Policy  Policy
	Workers int
}

// Write stages files and the static asset tree below assets (empty for none),
// then promotes the staging directory to Root. On failure Root is left as it
// was and the staging directory is removed.
func (w Writer) Write(ctx context.Context, files []File, assets string) (Result, error) {
	var res Result
	root, err := filepath.Abs(w.Root)
	if err != nil {
		return res, ferrors.WriteError(w.Root, err).Build()
	}
	for _, f := range files {
		if !filepath.IsLocal(filepath.FromSlash(f.Path)) {
			return res, ferrors.InternalError("output path escapes the output root").WithPath(f.Path).Build()
		}
	}
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return res, ferrors.WriteError(root, errors.New("output root is not a directory")).Build()
	}

	parent := filepath.Dir(root)
	if err := os.MkdirAll(parent, dirMode); err != nil {
		return res, ferrors.WriteError(parent, err).Build()
	}
	staging, err := os.MkdirTemp(parent, filepath.Base(root)+".staging-*")
	if err != nil {
		return res, ferrors.WriteError(parent, err).Build()
	}
	promoted := false
	defer func() {
		if promoted {
			return
		}
		if err := os.RemoveAll(staging); err != nil {
			slog.Warn("Failed to remove staging directory", logfields.Path(staging), logfields.Error(err))
		} else {
			slog.Debug("Removed staging directory", logfields.Path(staging))
		}
	}()
	if err := os.Chmod(staging, dirMode); err != nil {
		return res, ferrors.WriteError(staging, err).Build()
	}

	workers := w.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	st := &stage{root: root, dir: staging, workers: workers, dirs: newDirMaker()}

	if w.Policy == PolicyMerge {
		n, err := st.preserve(ctx)
		if err != nil {
			return res, err
		}
		res.Preserved = n
	}

	pagePaths := sets.New[string]()
	for _, f := range files {
		pagePaths.Add(f.Path)
	}
	var assetList []string
	if assets != "" {
		found, err := listTree(assets)
		if err != nil {
			return res, ferrors.WrapError(err, ferrors.CategoryNotFound, "read static assets").
				Fatal().
				WithPath(assets).
				Build()
		}
		for _, rel := range found {
			if pagePaths.Has(rel) {
				slog.Warn("Generated page replaces static asset", logfields.Path(rel))
				res.Shadowed++
				continue
			}
			assetList = append(assetList, rel)
		}
	}

	changed, err := st.write(ctx, files, assets, assetList)
	if err != nil {
		return res, err
	}
	res.Pages = len(files)
	res.Assets = len(assetList)
	for _, c := range changed {
		if c {
			res.Changed++
		} else {
			res.Unchanged++
		}
	}

	if err := ctx.Err(); err != nil {
		return res, canceled(err)
	}
	if err := promote(staging, root); err != nil {
		return res, ferrors.WriteError(root, err).Build()
	}
	promoted = true
	slog.Info("Promoted staging directory",
		logfields.Output(root),
		logfields.Count(res.Pages),
		slog.Int("assets", res.Assets),
		slog.Int("changed", res.Changed))
	return res, nil
}

type stage struct {
	root    string
	dir     string
	workers int
	dirs    *dirMaker
}

// preserve copies the previous output tree into staging.
func (s *stage) preserve(ctx context.Context) (int, error) {
	if _, err := os.Stat(s.root); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	prev, err := listTree(s.root)
	if err != nil {
		return 0, ferrors.WriteError(s.root, err).Build()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, rel := range prev {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.copyFile(filepath.Join(s.root, filepath.FromSlash(rel)), rel)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, s.classify(ctx, err)
	}
	return len(prev), nil
}

// write copies assets and writes pages in parallel. The returned slice
// reports per page whether its bytes differ from the previous output.
func (s *stage) write(ctx context.Context, files []File, assets string, assetList []string) ([]bool, error) {
	changed := make([]bool, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, rel := range assetList {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.copyFile(filepath.Join(assets, filepath.FromSlash(rel)), rel)
		})
	}
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			old, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(f.Path)))
			changed[i] = err != nil || !bytes.Equal(old, f.Data)
			return s.writeFile(f.Path, f.Data)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.classify(ctx, err)
	}
	return changed, nil
}

func (s *stage) target(rel string) (string, error) {
	dst := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := s.dirs.ensure(filepath.Dir(dst)); err != nil {
		return "", ferrors.WriteError(rel, err).Build()
	}
	return dst, nil
}

func (s *stage) writeFile(rel string, data []byte) error {
	dst, err := s.target(rel)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, fileMode); err != nil {
		return ferrors.WriteError(rel, err).Build()
	}
	return nil
}

func (s *stage) copyFile(src, rel string) error {
	dst, err := s.target(rel)
	if err != nil {
		return err
	}
	if err := copyContents(src, dst); err != nil {
		return ferrors.WriteError(rel, err).Build()
	}
	return nil
}

func (s *stage) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil && !ferrors.IsClassified(err) {
		return canceled(ctx.Err())
	}
	if ferrors.IsClassified(err) {
		return err
	}
	return ferrors.WriteError(s.dir, err).Build()
}

func copyContents(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}

// listTree returns the slash separated paths of every regular file below root.
func listTree(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

// promote swaps staging into place. The previous tree is kept as <root>.prev
// until the rename succeeds and restored if it does not.
func promote(staging, root string) error {
	prev := root + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove stale backup: %w", err)
	}
	hadOld := false
	if _, err := os.Stat(root); err == nil {
		if err := os.Rename(root, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
		hadOld = true
	}
	if err := os.Rename(staging, root); err != nil {
		if hadOld {
			if rerr := os.Rename(prev, root); rerr != nil {
				slog.Error("Failed to restore previous output", logfields.Path(prev), logfields.Error(rerr))
			}
		}
		return fmt.Errorf("promote staging: %w", err)
	}
	if hadOld {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous output", logfields.Path(prev), logfields.Error(err))
		}
	}
	return nil
}

func canceled(err error) error {
	return ferrors.WrapError(err, ferrors.CategoryCanceled, "write canceled").Fatal().Build()
}

// dirMaker creates each directory once even when many writers need it at the same time.
type dirMaker struct {
	group   singleflight.Group
	mu      sync.Mutex
	created sets.Set[string]
}

func newDirMaker() *dirMaker {
	return &dirMaker{created: sets.New[string]()}
}

func (d *dirMaker) ensure(dir string) error {
	d.mu.Lock()
	done := d.created.Has(dir)
	d.mu.Unlock()
	if done {
		return nil
	}
	_, err, _ := d.group.Do(dir, func() (any, error) {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.created.Add(dir)
		d.mu.Unlock()
		return nil, nil
	})
	return err
}
