package commands

import (
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultPath
	}
	return RunInit(g.out(), path, i.Force)
}

// RunInit writes the example configuration to path.
func RunInit(out io.Writer, path string, force bool) error {
	slog.Debug("Initializing configuration", logfields.Path(path), slog.Bool("force", force))
	if err := config.Init(path, force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote configuration to %s\n", path)
	return nil
}
