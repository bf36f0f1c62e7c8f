package pipeline

import (
	"context"
	"log/slog"
	"runtime"

	"git.home.luguber.info/inful/sitebuilder/internal/contenthash"
	"git.home.luguber.info/inful/sitebuilder/internal/document"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/markdown"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"golang.org/x/sync/errgroup"
)

// stageProcessDocuments discovers sources and runs Load, Render and Hash for
// each on the worker pool. Results are merged in discovery order.
func stageProcessDocuments(ctx context.Context, bs *BuildState) error {
	loader := document.NewLoader(bs.Options.SourceDir, bs.Options.Extensions...)
	var cands []document.Candidate
	for c, err := range loader.Candidates(ctx) {
		if err != nil {
			return err
		}
		cands = append(cands, c)
	}
	bs.Report.Documents = len(cands)
	slog.Info("Discovered documents", logfields.Count(len(cands)), logfields.Path(loader.Root()))

	md := markdown.New(bs.Options.Markdown)
	results := make([]DocResult, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(bs.Options.Workers))
	for i, c := range cands {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processDocument(loader, md, c)
			if bs.Options.Strict && results[i].Err != nil {
				return results[i].Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bs.Entries = make([]site.Entry, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			if ferrors.HasSeverity(r.Err, ferrors.SeverityFatal) {
				return r.Err
			}
			slog.Warn("Document skipped", logfields.Path(r.Candidate.Path), logfields.Error(r.Err))
			bs.Report.AddIssue(StageProcessDocuments, r.Err)
			continue
		}
		bs.Entries = append(bs.Entries, *r.Entry)
	}
	return nil
}

func processDocument(loader *document.Loader, md *markdown.Renderer, c document.Candidate) DocResult {
	res := DocResult{Candidate: c}
	doc, err := loader.Load(c)
	if err != nil {
		res.Err = err
		return res
	}
	out, err := md.Render(doc.Body)
	if err != nil {
		res.Err = ferrors.WrapError(err, ferrors.CategoryInternal, "render markdown").WithPath(c.Path).Build()
		return res
	}
	h, err := contenthash.Compute(doc.Meta, []byte(out.HTML))
	if err != nil {
		res.Err = ferrors.WrapError(err, ferrors.CategoryInternal, "hash document").WithPath(c.Path).Build()
		return res
	}
	res.Entry = &site.Entry{Doc: doc, Content: out, Hash: h}
	return res
}

func workerCount(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
