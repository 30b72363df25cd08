package site

import (
	"context"
	"iter"

	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/render"
)

// staticSource yields a fixed list of repositories.
type staticSource struct {
	repos []forge.Repository
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) ListMods(context.Context) iter.Seq2[forge.Repository, error] {
	return func(yield func(forge.Repository, error) bool) {
		for _, repo := range s.repos {
			if !yield(repo, nil) {
				return
			}
		}
	}
}

// panickingRepository panics when the page directory is listed.
type panickingRepository struct {
	forge.Repository
}

func (r panickingRepository) ListDir(ctx context.Context, dir string) iter.Seq[string] {
	if dir == forge.PageDir {
		panic("boom")
	}
	return r.Repository.ListDir(ctx, dir)
}

// failingSource fails enumeration with err.
type failingSource struct {
	err error
}

func (s failingSource) Name() string { return "failing" }

func (s failingSource) ListMods(context.Context) iter.Seq2[forge.Repository, error] {
	return func(yield func(forge.Repository, error) bool) {
		yield(nil, s.err)
	}
}

// failingRenderer fails the page written to output and renders every other
// page with the wrapped renderer.
type failingRenderer struct {
	render.Renderer
	output string
}

func (r failingRenderer) Render(page render.Page, data render.Data) ([]byte, error) {
	if page.Output == r.output {
		return nil, errors.RenderError("template execution failed").
			WithContext("output", page.Output).
			Build()
	}
	return r.Renderer.Render(page, data)
}
