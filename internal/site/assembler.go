package site

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/nextmod/nextmod/internal/catalog"
	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/gallery"
	"gitlab.com/nextmod/nextmod/internal/linkverify"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/metrics"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
	"gitlab.com/nextmod/nextmod/internal/observability"
	"gitlab.com/nextmod/nextmod/internal/output"
	"gitlab.com/nextmod/nextmod/internal/render"
)

// Stage names.
const (
	StageLoad     = "load"
	StageGroups   = "groups"
	StageMods     = "mods"
	StageSearch   = "search"
	StageAbout    = "about"
	StageIndexes  = "indexes"
	StageManifest = "manifest"
	StageStatic   = "static"
	StageVerify   = "verify"
)

// Output files at the site root.
const (
	SearchDataFile = "search-data.json"
	IndexFile      = "index.json"
	AboutPage      = "about.html"
	StaticDir      = "_static"
)

// Options configure a build.
type Options struct {
	Instance modinfo.Instance
	// Concurrency bounds catalog loading and link verification.
	Concurrency int
	Images      gallery.Options
	// StaticDir is copied to _static/ when set.
	StaticDir string
	// AboutFile is the markdown source of about.html. Missing is not an error.
	AboutFile string
	// Verify runs the link check after the build.
	Verify bool
	// Now stamps generated pages; defaults to time.Now.
	Now func() time.Time
}

// Result summarizes a build.
type Result struct {
	Mods       int
	ModsFailed int
	Pages      int
	Files      int
	Verify     *linkverify.Report
	Duration   time.Duration
}

// Assembler builds the site from one source into one output sandbox.
type Assembler struct {
	src      forge.Source
	out      *output.Sandbox
	renderer render.Renderer
	recorder metrics.Recorder
	images   *gallery.Processor
	opts     Options

	mods        []catalog.Mod
	groups      []catalog.Group
	generatedAt time.Time
	result      Result
}

// New creates an assembler. A nil recorder disables metrics.
func New(src forge.Source, out *output.Sandbox, renderer render.Renderer, opts Options, recorder metrics.Recorder) *Assembler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Assembler{
		src:      src,
		out:      out,
		renderer: renderer,
		recorder: recorder,
		images:   gallery.NewProcessor(out, opts.Images, recorder),
		opts:     opts,
	}
}

// Build runs every stage in order.
func (a *Assembler) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	a.generatedAt = a.opts.Now()

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{StageLoad, a.load},
		{StageGroups, a.buildGroups},
		{StageMods, a.processMods},
		{StageSearch, a.writeSearchData},
		{StageAbout, a.renderAbout},
		{StageIndexes, a.renderIndexes},
		{StageManifest, a.writeManifest},
		{StageStatic, a.copyStatic},
		{StageVerify, a.verify},
	}

	observability.InfoContext(ctx, "Building site", logfields.Source(a.src.Name()), logfields.Path(a.out.Root()))
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			a.finish(start, metrics.ResultFailed)
			return &a.result, err
		}
		if err := a.runStage(ctx, s.name, s.run); err != nil {
			a.finish(start, metrics.ResultFatal)
			return &a.result, err
		}
	}

	outcome := metrics.ResultSuccess
	if a.result.ModsFailed > 0 {
		outcome = metrics.ResultWarning
	}
	a.finish(start, outcome)
	observability.InfoContext(ctx, "Site built",
		logfields.Count(a.result.Pages),
		logfields.DurationMS(float64(a.result.Duration.Microseconds())/1000))
	return &a.result, nil
}

// runStage runs one stage. A recoverable error ends the stage but not the build.
func (a *Assembler) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, stage := observability.StartStage(ctx, name)
	err := fn(ctx)
	a.recorder.ObserveStageDuration(name, stage.End(err))
	switch {
	case err == nil:
		a.recorder.IncStageResult(name, metrics.ResultSuccess)
		return nil
	case recoverable(err) && ctx.Err() == nil:
		a.recorder.IncStageResult(name, metrics.ResultWarning)
		return nil
	default:
		a.recorder.IncStageResult(name, metrics.ResultFatal)
		return err
	}
}

func (a *Assembler) finish(start time.Time, outcome metrics.ResultLabel) {
	a.result.Duration = time.Since(start)
	a.recorder.ObserveBuildDuration(a.result.Duration)
	a.recorder.IncBuildOutcome(outcome)
}

func (a *Assembler) load(ctx context.Context) error {
	mods, err := catalog.Load(ctx, a.src, catalog.LoadOptions{Concurrency: a.opts.Concurrency})
	if err != nil {
		if errors.IsFatal(err) {
			return err
		}
		return errors.WrapError(err, errors.GetCategory(err), "failed to enumerate mods").
			WithContext("source", a.src.Name()).
			Fatal().
			Build()
	}
	a.mods = mods
	a.result.Mods = len(mods)
	a.recorder.SetModCount(len(mods))
	return nil
}

func (a *Assembler) buildGroups(context.Context) error {
	a.groups = catalog.BuildGroups(a.mods, catalog.DefaultGroupSpecs())
	return nil
}

// baseData holds the values every page receives.
func (a *Assembler) baseData() render.Data {
	return render.Data{
		"config":       a.opts.Instance,
		"mods":         a.mods,
		"groups":       a.groups,
		"generated_at": a.generatedAt,
		"has_static":   a.opts.StaticDir != "",
	}
}

// writePage renders page and writes it through the sandbox.
func (a *Assembler) writePage(page render.Page, data render.Data) error {
	html, err := a.renderer.Render(page, data)
	if err != nil {
		return err
	}
	if err := a.writeFile(page.Output, html, "page"); err != nil {
		return err
	}
	a.result.Pages++
	return nil
}

func (a *Assembler) writeFile(logical string, data []byte, kind string) error {
	if err := a.out.WriteFile(logical, data); err != nil {
		return err
	}
	a.recorder.IncFileWritten(kind, len(data))
	a.result.Files++
	return nil
}

// recoverable reports whether err may be logged and skipped.
func recoverable(err error) bool {
	return err != nil && !errors.IsFatal(err)
}

// tolerate logs a recoverable err and drops it. Fatal errors pass through.
func tolerate(ctx context.Context, err error, msg string, attrs ...slog.Attr) error {
	if !recoverable(err) {
		return err
	}
	observability.ErrorContext(ctx, msg, append(attrs, logfields.Error(err))...)
	return nil
}
