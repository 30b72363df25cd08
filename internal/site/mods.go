package site

import (
	"context"
	"fmt"
	"html/template"
	"path"

	"gitlab.com/nextmod/nextmod/internal/catalog"
	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/markdown"
	"gitlab.com/nextmod/nextmod/internal/metrics"
	"gitlab.com/nextmod/nextmod/internal/observability"
	"gitlab.com/nextmod/nextmod/internal/render"
	"gitlab.com/nextmod/nextmod/internal/sitepath"
)

// PageSource is the markdown body of a mod page inside the page directory.
const PageSource = "page.md"

// reservedPageFiles cannot be copied from page/ because the build writes them.
var reservedPageFiles = map[string]bool{
	sitepath.IndexPage: true,
	forge.ImageDir:     true,
	forge.ModInfoFile:  true,
}

// processMods publishes every mod in catalog order. A failing mod is logged
// and keeps the fields it had; only a fatal error stops the stage. Groups are
// rebuilt afterwards so listings see the processed images.
func (a *Assembler) processMods(ctx context.Context) error {
	for i, mod := range a.mods {
		if err := ctx.Err(); err != nil {
			return err
		}
		modCtx := observability.WithMod(ctx, mod.ID)
		observability.InfoContext(modCtx, "Generating mod page")

		updated, err := a.processMod(modCtx, mod)
		a.mods[i] = updated
		switch {
		case err == nil:
			a.recorder.IncModResult(metrics.ResultSuccess)
		case recoverable(err):
			observability.ErrorContext(modCtx, "Failed to generate mod page", logfields.Error(err))
			a.recorder.IncModResult(metrics.ResultFailed)
			a.result.ModsFailed++
		default:
			a.recorder.IncModResult(metrics.ResultFatal)
			return err
		}
	}
	a.groups = catalog.BuildGroups(a.mods, catalog.DefaultGroupSpecs())
	return nil
}

// processMod returns the mod with its images even when a later step fails.
func (a *Assembler) processMod(ctx context.Context, mod catalog.Mod) (result catalog.Mod, err error) {
	result = mod
	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError(fmt.Sprintf("panic while generating mod page: %v", r)).
				WithContext("mod", mod.ID).
				WithSeverity(errors.SeverityError).
				Build()
		}
	}()

	repo := mod.Repository()
	images, err := a.images.Process(ctx, repo, mod.ID)
	if err != nil {
		return result, err
	}
	result = mod.WithImages(images)

	pageMD, err := a.copyPageFiles(ctx, result)
	if err != nil {
		return result, err
	}

	infoMD, _ := repo.GetFile(ctx, forge.ModInfoFile)
	infoHTML, err := markdown.Plain(infoMD)
	if err != nil {
		return result, err
	}
	pageHTML, err := markdown.Page(pageMD)
	if err != nil {
		return result, err
	}

	data := a.baseData()
	data["mod"] = result
	data["info_html"] = template.HTML(infoHTML) // #nosec G203 - rendered by goldmark
	data["page_html"] = template.HTML(pageHTML) // #nosec G203 - rendered by goldmark
	return result, a.writePage(render.Page{Template: render.TemplateMod, Output: result.Link()}, data)
}

// copyPageFiles copies page/ into the mod directory and returns page.md.
// Reserved and unreadable entries are skipped.
func (a *Assembler) copyPageFiles(ctx context.Context, mod catalog.Mod) ([]byte, error) {
	repo := mod.Repository()
	var pageMD []byte
	for name := range repo.ListDir(ctx, forge.PageDir) {
		if reservedPageFiles[name] {
			observability.WarnContext(ctx, "Reserved filename in page directory, skipped", logfields.File(name))
			continue
		}
		data, ok := repo.GetFile(ctx, path.Join(forge.PageDir, name))
		if !ok {
			observability.WarnContext(ctx, "Page file not readable, skipped", logfields.File(name))
			continue
		}
		if err := a.writeFile(path.Join(sitepath.ItemDir(mod.ID), name), data, "page_file"); err != nil {
			return nil, err
		}
		if name == PageSource {
			pageMD = data
		}
	}
	return pageMD, nil
}
