package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes used by the knowledgelib CLI.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitValidation = 2
	ExitConfig     = 7
	ExitInternal   = 10
	ExitBuild      = 11
	ExitRuntime    = 12
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitGeneral
	}
	switch classified.Category() {
	case CategoryValidation:
		return ExitValidation
	case CategoryConfig:
		return ExitConfig
	case CategoryCorpus, CategoryBuild, CategoryRender, CategoryFileSystem:
		return ExitBuild
	case CategoryState, CategoryRuntime:
		return ExitRuntime
	case CategoryInternal:
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
		return classified.Error()
	}
	if classified.Cause() != nil {
		return fmt.Sprintf("Error: %s: %v", classified.Message(), classified.Cause())
	}
	return "Error: " + classified.Message()
}

// HandleError logs err, prints a user-facing message and exits with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logError(err)
	fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), a.slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
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
