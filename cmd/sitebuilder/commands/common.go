// Package commands implements the sitebuilder subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
)

// Global carries process state shared by all subcommands.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
	// Out receives user-facing output such as the build summary.
	Out io.Writer
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default sitebuilder.yaml)" env:"SITEBUILDER_CONFIG" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging" env:"SITEBUILDER_VERBOSE"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"1" help:"Build the site"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	History HistoryCmd `cmd:"" help:"List recent builds from the history database"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig loads the configuration named by --config. The default path is
// optional; an explicitly named file must exist.
func (c *CLI) LoadConfig() (*config.Config, error) {
	if c.Config == "" {
		return config.Load(config.DefaultPath, false)
	}
	return config.Load(c.Config, true)
}
