package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	DB     string `name:"db" help:"History database (defaults to reporting.history_db)" env:"SITEBUILDER_HISTORY_DB"`
	Limit  int    `short:"n" help:"Number of builds to list" default:"20"`
	Issues bool   `help:"Print the recorded issues of each build"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	path := h.DB
	if path == "" {
		cfg, err := root.LoadConfig()
		if err != nil {
			return err
		}
		path = cfg.Reporting.HistoryDB
	}
	if path == "" {
		return ferrors.ValidationError("no history database configured (use --db or reporting.history_db)").Build()
	}
	return RunHistory(g.ctx(), g.out(), path, h.Limit, h.Issues)
}

// RunHistory prints the most recent builds recorded in the database at path.
func RunHistory(ctx context.Context, out io.Writer, path string, limit int, issues bool) (err error) {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	builds, err := store.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(builds) == 0 {
		fmt.Fprintln(out, "No builds recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tOUTCOME\tREVISION\tPAGES\tDRAFTS\tISSUES")
	for _, b := range builds {
		rev := b.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			b.ID, b.Start.Format(time.RFC3339), b.Duration().Round(time.Millisecond),
			b.Outcome, rev, b.Written, b.Drafts, b.Issues)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !issues {
		return nil
	}
	for _, b := range builds {
		if b.Issues == 0 {
			continue
		}
		list, err := store.Issues(ctx, b.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s:\n", b.ID)
		for _, is := range list {
			fmt.Fprintf(out, "  %s [%s] %s\n", is.Path, is.Kind, is.Message)
		}
	}
	return nil
}
