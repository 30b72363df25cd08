package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// Log output formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// LoggerOptions configures NewLogger.
type LoggerOptions struct {
	Level  string
	Format string
	// File, when set, receives a JSON copy of every record through a rotating writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// ParseLevel maps a config level name onto slog. Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger for the configured format. The returned closer
// releases the rotating file sink and is never nil.
func NewLogger(opts LoggerOptions) (*slog.Logger, io.Closer, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := ParseLevel(opts.Level)

	var primary slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		primary = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case FormatJSON:
		primary = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatPretty:
		primary = charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           charmlog.Level(level),
		})
	default:
		return nil, nopCloser{}, errors.New("unknown log format: " + opts.Format)
	}

	if opts.File == "" {
		return slog.New(primary), nopCloser{}, nil
	}

	sink := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
	file := slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level})
	return slog.New(fanout{primary, file}), sink, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fanout writes each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Stage times one named build stage and logs its completion.
type Stage struct {
	name  string
	start time.Time
	ctx   context.Context
}

// StartStage tags ctx with the stage name and starts its clock.
func StartStage(ctx context.Context, name string) (context.Context, *Stage) {
	ctx = WithStage(ctx, name)
	DebugContext(ctx, "Stage started")
	return ctx, &Stage{name: name, start: time.Now(), ctx: ctx}
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// End logs the stage outcome and returns its duration.
func (s *Stage) End(err error) time.Duration {
	d := time.Since(s.start)
	ms := logfields.DurationMS(float64(d.Microseconds()) / 1000)
	if err != nil {
		ErrorContext(s.ctx, "Stage failed", ms, logfields.Error(err))
	} else {
		InfoContext(s.ctx, "Stage completed", ms)
	}
	return d
}
