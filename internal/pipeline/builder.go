package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/git"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Builder runs builds with fixed options.
type Builder struct {
	opts     Options
	recorder metrics.Recorder
}

// NewBuilder creates a builder. Metrics are discarded until WithRecorder is called.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	b.recorder = r
	return b
}

// Stages returns the stage definitions of a full build.
func Stages() []StageDef {
	return NewPipeline().
		Add(StageLoadTemplates, stageLoadTemplates).
		Add(StageProcessDocuments, stageProcessDocuments).
		Add(StageAssembleSite, stageAssembleSite).
		Add(StageRenderPages, stageRenderPages).
		Add(StageWriteOutput, stageWriteOutput).
		Build()
}

// Run executes one build. The report is returned even when the build fails;
// the error is the fatal stage error, if any. Recoverable problems of a
// best-effort build are report issues and leave the error nil.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := newReport(uuid.NewString(), b.opts.Strict)
	log := slog.With(logfields.BuildID(report.BuildID))

	if err := b.validate(); err != nil {
		report.Finish(err)
		b.recordBuild(report)
		return report, err
	}

	opts := b.opts
	if opts.Settings.Revision == "" {
		rev, err := git.Revision(opts.SourceDir)
		if err != nil {
			log.Warn("Could not read source revision", logfields.Error(err))
		}
		opts.Settings.Revision = rev
	}
	report.Revision = opts.Settings.Revision

	bs := &BuildState{Options: opts, Report: report, Recorder: b.recorder}
	log.Info("Build started",
		logfields.Path(opts.SourceDir),
		logfields.Output(opts.OutputDir),
		logfields.Revision(report.Revision),
		slog.Bool("strict", opts.Strict))

	err := RunStages(ctx, bs, Stages())
	report.Finish(err)
	b.recordBuild(report)

	attrs := []any{
		slog.String("outcome", string(report.Outcome)),
		logfields.Count(report.Written),
		slog.Int("issues", len(report.Issues)),
		logfields.Duration(report.Duration()),
	}
	if err != nil {
		log.Error("Build failed", append(attrs, logfields.Error(err))...)
	} else {
		log.Info("Build finished", attrs...)
	}
	return report, err
}

func (b *Builder) validate() error {
	switch {
	case b.opts.SourceDir == "":
		return ferrors.ValidationError("source directory is required").Build()
	case b.opts.TemplateDir == "":
		return ferrors.ValidationError("template directory is required").Build()
	case b.opts.OutputDir == "":
		return ferrors.ValidationError("output directory is required").Build()
	}
	return nil
}

func (b *Builder) recordBuild(r *Report) {
	b.recorder.ObserveBuildDuration(r.Duration())
	b.recorder.IncBuildOutcome(metrics.OutcomeLabel(r.Outcome))
	b.recorder.AddDocuments(r.Documents)
	for _, is := range r.Issues {
		b.recorder.IncIssue(is.Kind)
	}
}
