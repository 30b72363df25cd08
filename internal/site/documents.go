package site

import (
	"context"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gitlab.com/nextmod/nextmod/internal/catalog"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/linkverify"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/markdown"
	"gitlab.com/nextmod/nextmod/internal/observability"
	"gitlab.com/nextmod/nextmod/internal/render"
)

func (a *Assembler) writeSearchData(context.Context) error {
	data, err := catalog.EncodeJSON(catalog.BuildSearchData(a.mods), 1)
	if err != nil {
		return errors.InternalError("failed to encode search data").WithCause(err).Fatal().Build()
	}
	return a.writeFile(SearchDataFile, data, "json")
}

func (a *Assembler) writeManifest(context.Context) error {
	data, err := catalog.EncodeJSON(catalog.IndexManifest(a.mods), 0)
	if err != nil {
		return errors.InternalError("failed to encode index manifest").WithCause(err).Fatal().Build()
	}
	return a.writeFile(IndexFile, data, "json")
}

// renderAbout writes about.html. Without an about file the page body is empty.
func (a *Assembler) renderAbout(ctx context.Context) error {
	var source []byte
	if a.opts.AboutFile != "" {
		b, err := os.ReadFile(a.opts.AboutFile)
		switch {
		case err == nil:
			source = b
		case os.IsNotExist(err):
			observability.InfoContext(ctx, "About file not found, rendering empty page", logfields.Path(a.opts.AboutFile))
		default:
			return errors.FileSystemError("failed to read about file").
				WithCause(err).
				WithContext("path", a.opts.AboutFile).
				Build()
		}
	}

	html, err := markdown.Plain(source)
	if err != nil {
		return err
	}
	data := a.baseData()
	data["about_html"] = template.HTML(html) // #nosec G203 - rendered by goldmark
	return a.writePage(render.Page{Template: render.TemplateAbout, Output: AboutPage}, data)
}

// copyStatic mirrors the static directory into _static/.
func (a *Assembler) copyStatic(ctx context.Context) error {
	if a.opts.StaticDir == "" {
		return nil
	}
	if _, err := os.Stat(a.opts.StaticDir); err != nil {
		observability.WarnContext(ctx, "Static directory not found, skipped", logfields.Path(a.opts.StaticDir))
		return nil
	}

	count := 0
	err := filepath.WalkDir(a.opts.StaticDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(a.opts.StaticDir, p)
		if err != nil {
			return err
		}
		// #nosec G304 - p is below the configured static directory
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		count++
		return a.writeFile(path.Join(StaticDir, filepath.ToSlash(rel)), b, "static")
	})
	if err != nil {
		if errors.IsClassified(err) {
			return err
		}
		return errors.FileSystemError("failed to copy static directory").
			WithCause(err).
			WithContext("path", a.opts.StaticDir).
			Build()
	}
	observability.InfoContext(ctx, "Copied static files", logfields.Count(count))
	return nil
}

// verify checks the links of the emitted tree. Broken links are reported
// but do not fail the build.
func (a *Assembler) verify(ctx context.Context) error {
	if !a.opts.Verify {
		return nil
	}
	report, err := linkverify.NewVerifier(a.out.Root(), a.opts.Concurrency).Verify(ctx)
	if err != nil {
		observability.WarnContext(ctx, "Link verification failed", logfields.Error(err))
		return nil
	}
	a.result.Verify = &report
	return nil
}
