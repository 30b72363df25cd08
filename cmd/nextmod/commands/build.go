package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/gallery"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/metrics"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
	"gitlab.com/nextmod/nextmod/internal/output"
	"gitlab.com/nextmod/nextmod/internal/render"
	"gitlab.com/nextmod/nextmod/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source                string `help:"Override source.type (local|gitlab|github|remotes)"`
	Output                string `short:"o" help:"Override output.directory"`
	DevSkipImageTranscode bool   `name:"dev-skip-image-transcode" help:"Publish original images without transcoding or thumbnails"`
	Concurrency           int    `help:"Override source.concurrency"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root, overrides{
		Source:        b.Source,
		Output:        b.Output,
		SkipTranscode: b.DevSkipImageTranscode,
		Concurrency:   b.Concurrency,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, err = setupLogging(ctx, g, cfg, root.Verbose)
	if err != nil {
		return err
	}

	_, err = RunBuild(ctx, cfg, os.Stdout)
	return err
}

// RunBuild runs the full site pipeline for cfg and prints a summary to w.
func RunBuild(ctx context.Context, cfg *config.Config, w io.Writer) (*site.Result, error) {
	_, _ = fmt.Fprintln(w, "Starting nextmod build")

	instance, err := modinfo.LoadInstance(cfg.InstanceConfig)
	if err != nil {
		return nil, err
	}

	out, err := output.New(cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	renderer, err := render.NewHTMLRenderer(cfg.Output.Templates)
	if err != nil {
		return nil, err
	}

	src, release, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.Metrics.Textfile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	assembler := site.New(src, out, renderer, site.Options{
		Instance:    instance,
		Concurrency: cfg.Source.Concurrency,
		Images: gallery.Options{
			SkipTranscode: cfg.Images.SkipTranscode,
			ThumbnailSize: cfg.Images.ThumbnailSize,
			JPEGQuality:   cfg.Images.JPEGQuality,
		},
		StaticDir: cfg.Output.Static,
		AboutFile: cfg.Output.About,
		Verify:    cfg.Verify.Enabled,
	}, recorder)

	result, err := assembler.Build(ctx)

	if prom != nil {
		if werr := prom.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(werr))
		}
	}

	if err != nil {
		_, _ = fmt.Fprintln(w, "Build failed")
		return result, err
	}

	_, _ = fmt.Fprintf(w, "Built %d mods (%d failed): %d pages, %d files in %s\n",
		result.Mods, result.ModsFailed, result.Pages, result.Files, result.Duration.Round(time.Millisecond))
	if result.Verify != nil && !result.Verify.OK() {
		_, _ = fmt.Fprintf(w, "Link check found %d broken links\n", len(result.Verify.Broken))
	}
	_, _ = fmt.Fprintln(w, "Build completed successfully")
	return result, nil
}
