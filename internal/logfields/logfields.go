package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyPermalink  = "permalink"
	KeyTemplate   = "template"
	KeyKind       = "kind"
	KeyCount      = "count"
	KeyRevision   = "revision"
	KeyOutput     = "output"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr    { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr    { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Permalink(p string) slog.Attr   { return slog.String(KeyPermalink, p) }
func Template(name string) slog.Attr { return slog.String(KeyTemplate, name) }
func Kind(k string) slog.Attr        { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Revision(r string) slog.Attr    { return slog.String(KeyRevision, r) }
func Output(dir string) slog.Attr    { return slog.String(KeyOutput, dir) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
