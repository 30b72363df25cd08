package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySource     = "source"
	KeyMod        = "mod"
	KeyGroup      = "group"
	KeyEntry      = "entry"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyURL        = "url"
	KeyFormat     = "format"
	KeyCount      = "count"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Source(name string) slog.Attr    { return slog.String(KeySource, name) }
func Mod(id string) slog.Attr         { return slog.String(KeyMod, id) }
func Group(id string) slog.Attr       { return slog.String(KeyGroup, id) }
func Entry(id string) slog.Attr       { return slog.String(KeyEntry, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(name string) slog.Attr      { return slog.String(KeyFile, name) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
