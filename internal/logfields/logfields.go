// Package logfields holds the canonical slog attribute keys used across PageBuilder.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPage       = "page"
	KeyStep       = "step"
	KeyStatus     = "status"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyRecords    = "records"
	KeyItems      = "items"
	KeyDurationMS = "duration_ms"
	KeyRepo       = "repository"
	KeyBuildID    = "build_id"
	KeyURL        = "url"
	KeyCount      = "count"
	KeyError      = "error"
)

func Page(name string) slog.Attr      { return slog.String(KeyPage, name) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Records(n int) slog.Attr         { return slog.Int(KeyRecords, n) }
func Items(n int) slog.Attr           { return slog.Int(KeyItems, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
