package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/render"
)

func stageLoadTemplates(_ context.Context, bs *BuildState) error {
	t, err := render.LoadTemplates(bs.Options.TemplateDir)
	if err != nil {
		return err
	}
	bs.Templates = t
	slog.Debug("Loaded templates", logfields.Count(len(t.Names())), logfields.Path(bs.Options.TemplateDir))
	return nil
}
