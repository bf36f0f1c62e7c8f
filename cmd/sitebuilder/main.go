package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitebuilder/cmd/sitebuilder/commands"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitebuilder"),
		kong.Description("Build a static site from markdown sources and HTML templates."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		ferrors.NewCLIErrorAdapter(false, nil).HandleError(
			ferrors.WrapError(err, ferrors.CategoryInternal, "construct command line parser").Fatal().Build())
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		ferrors.NewCLIErrorAdapter(false, nil).HandleError(
			ferrors.WrapError(err, ferrors.CategoryValidation, "invalid command line").Build())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = kctx.Run(&commands.Global{Context: ctx, Logger: slog.Default(), Out: os.Stdout}, cli)
	stop()

	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
