package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"gitlab.com/nextmod/nextmod/internal/cache"
	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/observability"
	"gitlab.com/nextmod/nextmod/internal/retry"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	RunID  string

	closers []io.Closer
}

// Close releases the log file sink and any other resource registered on g.
func (g *Global) Close() {
	for i := len(g.closers) - 1; i >= 0; i-- {
		_ = g.closers[i].Close()
	}
	g.closers = nil
}

func (g *Global) onClose(c io.Closer) { g.closers = append(g.closers, c) }

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"nextmod.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build the mod site from the configured source"`
	List   ListCmd   `cmd:"" help:"Load mods from the configured source and print a summary table"`
	Verify VerifyCmd `cmd:"" help:"Check the relative links of an existing output tree"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration and instance file"`
}

// AfterApply installs a stderr logger until a command loads its configuration.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// overrides are the CLI flags that take precedence over nextmod.yaml.
type overrides struct {
	Source        string
	Output        string
	SkipTranscode bool
	Concurrency   int
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(root *CLI, o overrides) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(o.Source, o.Output, o.SkipTranscode, o.Concurrency); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging replaces the bootstrap logger with the configured one and
// tags ctx with a fresh run id.
func setupLogging(ctx context.Context, g *Global, cfg *config.Config, verbose bool) (context.Context, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, closer, err := observability.NewLogger(observability.LoggerOptions{
		Level:      level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return ctx, err
	}
	g.onClose(closer)

	g.RunID = uuid.NewString()
	g.Logger = logger
	slog.SetDefault(logger)
	return observability.WithRunID(ctx, g.RunID), nil
}

// openSource opens the response cache and the configured repository source.
// The returned release function closes both.
func openSource(ctx context.Context, cfg *config.Config) (forge.Source, func(), error) {
	c, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	src, err := forge.NewSource(cfg.Source, forge.Options{
		Cache:    c,
		CacheTTL: cfg.Cache.TTL,
		Retry:    retry.FromConfig(cfg.Source.Retry),
	})
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	release := func() {
		if err := forge.Close(src); err != nil {
			slog.Warn("Failed to release source", logfields.Source(src.Name()), logfields.Error(err))
		}
		_ = c.Close()
	}
	return src, release, nil
}
