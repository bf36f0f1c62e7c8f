package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/history"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
	"git.home.luguber.info/inful/sitebuilder/internal/output"
	"git.home.luguber.info/inful/sitebuilder/internal/pipeline"
)

// BuildCmd implements the 'build' command. Flags override configuration values.
type BuildCmd struct {
	Source      string `help:"Source directory with markdown documents" env:"SITEBUILDER_SOURCE"`
	Templates   string `help:"Template directory" env:"SITEBUILDER_TEMPLATES"`
	Static      string `help:"Static asset directory copied into the output" env:"SITEBUILDER_STATIC"`
	Output      string `short:"o" help:"Output directory for the generated site" env:"SITEBUILDER_OUTPUT"`
	Strict      bool   `help:"Abort on the first error and write nothing" env:"SITEBUILDER_STRICT"`
	Merge       bool   `help:"Keep files of the previous output that this build does not produce" env:"SITEBUILDER_MERGE"`
	AllowHTML   bool   `name:"allow-html" help:"Pass raw HTML in markdown through unescaped" env:"SITEBUILDER_ALLOW_HTML"`
	Workers     int    `help:"Parallel workers (0 uses all CPUs)" env:"SITEBUILDER_WORKERS"`
	Report      string `help:"Write the build report as JSON to this file" env:"SITEBUILDER_REPORT"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" env:"SITEBUILDER_METRICS_FILE"`
	HistoryDB   string `name:"history-db" help:"Record the build in this SQLite history database" env:"SITEBUILDER_HISTORY_DB"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if cfg, err = b.apply(cfg); err != nil {
		return err
	}
	report, err := RunBuild(g.ctx(), cfg, g.out())
	if err != nil {
		return err
	}
	if report.Outcome == pipeline.OutcomePartial {
		return ferrors.PartialSuccess(len(report.Issues))
	}
	return nil
}

// apply overlays the flags on cfg and finalizes the result again.
func (b *BuildCmd) apply(cfg *config.Config) (*config.Config, error) {
	overrides := []struct {
		flag string
		dst  *string
	}{
		{b.Source, &cfg.Paths.Source},
		{b.Templates, &cfg.Paths.Templates},
		{b.Static, &cfg.Paths.Static},
		{b.Output, &cfg.Paths.Output},
		{b.Report, &cfg.Reporting.ReportFile},
		{b.MetricsFile, &cfg.Reporting.MetricsFile},
		{b.HistoryDB, &cfg.Reporting.HistoryDB},
	}
	for _, o := range overrides {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}
	if b.Strict {
		cfg.Build.Strict = true
	}
	if b.Merge {
		cfg.Build.OutputPolicy = output.PolicyMerge
	}
	if b.AllowHTML {
		cfg.Build.AllowHTML = true
	}
	if b.Workers != 0 {
		cfg.Build.Workers = b.Workers
	}
	return config.Finalize(cfg)
}

// RunBuild executes one build for cfg, writes the configured report, metrics
// and history artifacts, and prints the summary to out. The report is
// returned whenever the pipeline ran.
func RunBuild(ctx context.Context, cfg *config.Config, out io.Writer) (*pipeline.Report, error) {
	builder := pipeline.NewBuilder(cfg.PipelineOptions())
	var prom *metrics.PrometheusRecorder
	if cfg.Reporting.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		builder.WithRecorder(prom)
	}

	report, buildErr := builder.Run(ctx)
	if report == nil {
		return nil, buildErr
	}
	artifactErr := writeArtifacts(context.WithoutCancel(ctx), cfg.Reporting, report, prom)
	fmt.Fprint(out, report.Summary())

	if buildErr != nil {
		return report, buildErr
	}
	return report, artifactErr
}

func writeArtifacts(ctx context.Context, rc config.ReportingConfig, report *pipeline.Report, prom *metrics.PrometheusRecorder) error {
	var errs []error
	if rc.ReportFile != "" {
		if err := report.WriteJSON(rc.ReportFile); err != nil {
			errs = append(errs, ferrors.WriteError(rc.ReportFile, err).Build())
		} else {
			slog.Debug("Wrote build report", logfields.Path(rc.ReportFile))
		}
	}
	if prom != nil {
		if err := prom.WriteTextfile(rc.MetricsFile); err != nil {
			errs = append(errs, ferrors.WriteError(rc.MetricsFile, err).Build())
		} else {
			slog.Debug("Wrote metrics textfile", logfields.Path(rc.MetricsFile))
		}
	}
	if rc.HistoryDB != "" {
		if err := recordHistory(ctx, rc.HistoryDB, report); err != nil {
			errs = append(errs, err)
		}
	}
	for _, err := range errs {
		slog.Error("Failed to write build artifact", logfields.Error(err))
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func recordHistory(ctx context.Context, path string, report *pipeline.Report) (err error) {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return store.Record(ctx, report)
}
