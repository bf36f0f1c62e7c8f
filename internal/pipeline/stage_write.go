package pipeline

import (
	"context"

	"git.home.luguber.info/inful/sitebuilder/internal/output"
)

func stageWriteOutput(ctx context.Context, bs *BuildState) error {
	w := output.Writer{
		Root:    bs.Options.OutputDir,
		Policy:  bs.Options.Policy,
		Workers: workerCount(bs.Options.Workers),
	}
	res, err := w.Write(ctx, bs.Files, bs.Options.StaticDir)
	if err != nil {
		return err
	}
	bs.Report.Written = res.Pages
	bs.Report.Assets = res.Assets
	bs.Report.Preserved = res.Preserved
	bs.Report.Changed = res.Changed
	bs.Report.Unchanged = res.Unchanged

	if bs.Recorder != nil {
		perKind := make(map[string]int)
		for _, k := range bs.fileKinds {
			perKind[string(k)]++
		}
		for k, n := range perKind {
			bs.Recorder.AddPages(k, n)
		}
	}
	return nil
}
