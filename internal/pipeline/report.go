package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

// Outcome is the final result state of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomePartial  Outcome = "partial"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Issue is one problem recorded during a build.
type Issue struct {
	// Kind is the error category, e.g. "frontmatter" or "template_not_found".
	Kind     string    `json:"kind"`
	Stage    StageName `json:"stage"`
	Severity string    `json:"severity"`
	Path     string    `json:"path,omitempty"`
	Template string    `json:"template,omitempty"`
	Message  string    `json:"message"`
}

// Report captures the counts and issues of one build run.
type Report struct {
	SchemaVersion int       `json:"schema_version"`
	BuildID       string    `json:"build_id"`
	Version       string    `json:"version"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Revision      string    `json:"revision,omitempty"`
	Strict        bool      `json:"strict"`

	Documents int `json:"documents"`
	Drafts    int `json:"drafts"`
	Posts     int `json:"posts"`
	Pages     int `json:"pages"`
	Synthetic int `json:"synthetic"`
	Written   int `json:"written"`
	Assets    int `json:"assets"`
	Preserved int `json:"preserved"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`

	Issues         []Issue                     `json:"issues"`
	StageDurations map[StageName]time.Duration `json:"stage_durations"`
	StageResults   map[StageName]StageResult   `json:"stage_results"`
	Outcome        Outcome                     `json:"outcome"`

	// Err is the fatal error that ended the build, if any.
	Err error `json:"-"`
}

func newReport(buildID string, strict bool) *Report {
	return &Report{
		SchemaVersion:  1,
		BuildID:        buildID,
		Version:        version.Version,
		Start:          time.Now(),
		Strict:         strict,
		Issues:         []Issue{},
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
	}
}

// AddIssue records err as an issue of stage.
func (r *Report) AddIssue(stage StageName, err error) {
	r.Issues = append(r.Issues, issueFrom(stage, err))
}

func issueFrom(stage StageName, err error) Issue {
	is := Issue{Stage: stage, Kind: string(ferrors.CategoryInternal), Severity: string(ferrors.SeverityError), Message: err.Error()}
	ce, ok := ferrors.AsClassified(err)
	if !ok {
		return is
	}
	is.Kind = string(ce.Category())
	is.Severity = string(ce.Severity())
	is.Path = ce.Path()
	is.Template, _ = ce.Context().GetString(ferrors.ContextTemplate)
	is.Message = ce.Message()
	if ce.Cause() != nil {
		is.Message += ": " + ce.Cause().Error()
	}
	if fields, ok := ce.Context().Get(ferrors.ContextField); ok {
		if list, ok := fields.([]string); ok && len(list) > 0 {
			is.Message += " " + strings.Join(list, ", ")
		}
	}
	return is
}

// RecordStageResult stores the stage result and forwards it to the recorder.
func (r *Report) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	r.StageResults[stage] = res
	if recorder == nil {
		return
	}
	switch res {
	case StageResultSuccess:
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
}

// Finish sets the end time and derives the outcome.
func (r *Report) Finish(err error) {
	r.End = time.Now()
	r.Err = err
	r.DeriveOutcome()
}

// DeriveOutcome sets Outcome from the fatal error and recorded issues.
func (r *Report) DeriveOutcome() {
	var se *StageError
	switch {
	case r.Err != nil && errors.As(r.Err, &se) && se.Kind == StageErrorCanceled:
		r.Outcome = OutcomeCanceled
	case r.Err != nil:
		r.Outcome = OutcomeFailed
	case len(r.Issues) > 0:
		r.Outcome = OutcomePartial
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Summary renders the user-visible build summary: the succeeded page count,
// the skipped draft count, then one line per issue with its source and kind.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d pages built, %d drafts skipped", r.Written, r.Drafts)
	if len(r.Issues) > 0 {
		fmt.Fprintf(&b, ", %d errors", len(r.Issues))
	}
	b.WriteString("\n")
	for _, is := range r.Issues {
		source := is.Path
		if source == "" {
			source = "(build)"
		}
		fmt.Fprintf(&b, "  %s [%s] %s\n", source, is.Kind, is.Message)
	}
	return b.String()
}

// WriteJSON persists the report atomically as indented JSON.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
