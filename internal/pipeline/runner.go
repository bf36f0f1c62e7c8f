package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// RunStages executes stages in order, recording timing and results, and stops
// at the first stage returning an error. Stages record recoverable problems
// as report issues themselves; a stage that added issues finishes as a warning.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := NewCanceledStageError(st.Name, canceledError(err))
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, bs.Recorder)
			return se
		}

		issuesBefore := len(bs.Report.Issues)
		log := slog.With(logfields.Stage(string(st.Name)))
		log.Debug("Stage started")

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		bs.Report.StageDurations[st.Name] = dur
		if bs.Recorder != nil {
			bs.Recorder.ObserveStageDuration(string(st.Name), dur)
		}

		if err != nil {
			se := classifyStageError(st.Name, err)
			res := StageResultFatal
			if se.Kind == StageErrorCanceled {
				res = StageResultCanceled
			}
			bs.Report.RecordStageResult(st.Name, res, bs.Recorder)
			log.Debug("Stage failed", logfields.Duration(dur), logfields.Error(err))
			return se
		}

		res := StageResultSuccess
		if len(bs.Report.Issues) > issuesBefore {
			res = StageResultWarning
		}
		bs.Report.RecordStageResult(st.Name, res, bs.Recorder)
		log.Debug("Stage completed", logfields.Duration(dur), slog.String("result", string(res)))
	}
	return nil
}

func classifyStageError(stage StageName, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		ferrors.HasCategory(err, ferrors.CategoryCanceled) {
		if !ferrors.IsClassified(err) {
			err = canceledError(err)
		}
		return NewCanceledStageError(stage, err)
	}
	return NewFatalStageError(stage, err)
}

func canceledError(err error) error {
	return ferrors.WrapError(err, ferrors.CategoryCanceled, "build canceled").Fatal().Build()
}
