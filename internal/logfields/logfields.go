package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyDocument   = "document"
	KeySection    = "section"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDirective  = "directive"
	KeyRule       = "rule"
	KeySeverity   = "severity"
	KeyWorkers    = "workers"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Document(id string) slog.Attr    { return slog.String(KeyDocument, id) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Directive(d string) slog.Attr    { return slog.String(KeyDirective, d) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func Severity(s string) slog.Attr     { return slog.String(KeySeverity, s) }
func Workers(n int) slog.Attr         { return slog.Int(KeyWorkers, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
