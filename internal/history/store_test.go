package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
	"github.com/stretchr/testify/require"
)

func report(id string, start time.Time, issues ...pipeline.Issue) *pipeline.Report {
	r := &pipeline.Report{
		BuildID:   id,
		Version:   "test",
		Start:     start,
		End:       start.Add(1500 * time.Millisecond),
		Revision:  "abc123",
		Documents: 4,
		Drafts:    1,
		Written:   6,
		Changed:   2,
		Unchanged: 4,
		Issues:    issues,
		Outcome:   pipeline.OutcomeSuccess,
	}
	if len(issues) > 0 {
		r.Outcome = pipeline.OutcomePartial
	}
	return r
}

func TestStore_RecordAndList(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(ctx, report("first", base)))
	require.NoError(t, s.Record(ctx, report("second", base.Add(time.Hour), pipeline.Issue{
		Kind:     string(ferrors.CategoryFrontMatter),
		Stage:    pipeline.StageProcessDocuments,
		Severity: string(ferrors.SeverityError),
		Path:     "bad.md",
		Message:  "malformed front matter",
	})))

	builds, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	require.Equal(t, "second", builds[0].ID)
	require.Equal(t, pipeline.OutcomePartial, builds[0].Outcome)
	require.Equal(t, 1, builds[0].Issues)
	require.Equal(t, "first", builds[1].ID)
	require.True(t, builds[1].Start.Equal(base))
	require.Equal(t, 1500*time.Millisecond, builds[1].Duration())
	require.Equal(t, 6, builds[1].Written)

	issues, err := s.Issues(ctx, "second")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, "bad.md", issues[0].Path)
	require.Equal(t, pipeline.StageProcessDocuments, issues[0].Stage)

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestStore_DuplicateBuildID(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Record(ctx, report("same", time.Now())))
	err = s.Record(ctx, report("same", time.Now()))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryHistory))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), report("kept", time.Now())))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	builds, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	require.Equal(t, "kept", builds[0].ID)
}
