package errors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Exit codes returned by the CLI.
const (
	ExitOK           = 0
	ExitGeneral      = 1
	ExitUsage        = 2
	ExitPartial      = 3 // 3-6 are reserved for partial-success outcomes
	ExitConfig       = 7
	ExitInternal     = 10
	ExitBuildFailure = 11
	ExitCanceled     = 130
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// PartialSuccess builds the error a best-effort build returns when it completed with issues.
func PartialSuccess(issues int) *ClassifiedError {
	return NewError(CategoryPartial, fmt.Sprintf("build completed with %d issue(s)", issues)).
		Warning().
		WithContext("issues", issues).
		Build()
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	if classified, ok := AsClassified(err); ok {
		return a.exitCodeFromClassified(classified)
	}
	return ExitGeneral
}

func (a *CLIErrorAdapter) exitCodeFromClassified(err *ClassifiedError) int {
	switch err.Category() {
	case CategoryPartial:
		return ExitPartial
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig, CategoryNotFound:
		return ExitConfig
	case CategoryEncoding, CategoryFrontMatter, CategoryMissingField,
		CategoryPermalinkCollision, CategoryTemplateNotFound, CategoryTemplateRender,
		CategoryWrite, CategoryHistory, CategoryGit:
		return ExitBuildFailure
	case CategoryCanceled:
		return ExitCanceled
	case CategoryInternal, CategoryRuntime:
		return ExitInternal
	default:
		return ExitGeneral
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return err.Error()
	}
	if classified.Category() == CategoryPartial {
		return classified.Message()
	}
	msg := classified.Message()
	if p := classified.Path(); p != "" {
		msg = p + ": " + msg
	}
	if cause := classified.Cause(); cause != nil {
		msg += ": " + cause.Error()
	}
	return "Error: " + msg
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	if a.shouldLog(err) {
		a.logError(err)
	}
	fmt.Fprintf(os.Stderr, "%s\n", a.FormatError(err))
	os.Exit(exitCode)
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if classified, ok := AsClassified(err); ok {
		return classified.Severity() == SeverityFatal
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	if classified, ok := AsClassified(err); ok {
		level := a.slogLevelFromSeverity(classified.Severity())
		attrs := []slog.Attr{
			slog.String("category", string(classified.Category())),
		}
		if p := classified.Path(); p != "" {
			attrs = append(attrs, slog.String(ContextPath, p))
		}
		if cause := classified.Cause(); cause != nil {
			attrs = append(attrs, slog.String("error", cause.Error()))
		}
		a.logger.LogAttrs(context.Background(), level, classified.Message(), attrs...)
		return
	}
	a.logger.Error("Unclassified error", "error", err)
}

func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
