package site

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/gallery"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
	"gitlab.com/nextmod/nextmod/internal/output"
	"gitlab.com/nextmod/nextmod/internal/render"
)

func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, content, 0o600))
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	src    string
	out    string
	static string
	about  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	base := t.TempDir()
	f := fixture{
		src:    filepath.Join(base, "mods"),
		out:    filepath.Join(base, "public"),
		static: filepath.Join(base, "static"),
		about:  filepath.Join(base, "about.md"),
	}
	require.NoError(t, os.MkdirAll(f.out, 0o750))

	writeTree(t, f.src, map[string][]byte{
		"red-castle/mod-info.md":         []byte("# Name\nRed Castle\n# Created by\n* Jane Doe\n# Category\nMaps\n# Last update date\n2021-05-01\n"),
		"red-castle/tags.md":             []byte("* Night\n"),
		"red-castle/page/page.md":        []byte("-->Welcome<--\n\nSee [readme](readme.txt).\n"),
		"red-castle/page/readme.txt":     []byte("read me"),
		"red-castle/page/index.html":     []byte("reserved"),
		"red-castle/image/banner.png":    pngBytes(t, 40, 20),
		"red-castle/image/preview-1.png": pngBytes(t, 30, 30),
		"red-castle/image/preview-2.png": pngBytes(t, 30, 30),
		"red-castle/image/bogus.png":     []byte("nope"),
		"red-castle/data/a.pak":          []byte("1234"),
		"blue-fort/mod-info.md":          []byte("# Name\nBlue Fort\n# Category\nMaps\n"),
	})
	writeTree(t, f.static, map[string][]byte{"search.js": []byte("// search")})
	require.NoError(t, os.WriteFile(f.about, []byte("# About\nhello\n"), 0o600))
	return f
}

func (f fixture) assembler(t *testing.T, opts Options) *Assembler {
	t.Helper()
	out, err := output.New(f.out)
	require.NoError(t, err)
	r, err := render.NewHTMLRenderer("")
	require.NoError(t, err)
	opts.Instance = modinfo.Instance{Name: "Test Site"}
	opts.Now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }
	return New(forge.NewDirectorySource(f.src), out, r, opts, nil)
}

func readOut(t *testing.T, root, logical string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(logical)))
	require.NoError(t, err, logical)
	return string(b)
}

func TestBuild(t *testing.T) {
	f := newFixture(t)
	a := f.assembler(t, Options{
		Concurrency: 2,
		Images:      gallery.Options{ThumbnailSize: 16},
		StaticDir:   f.static,
		AboutFile:   f.about,
		Verify:      true,
	})

	res, err := a.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Mods)
	assert.Zero(t, res.ModsFailed)

	for _, p := range []string{
		"index.html", "index-dsc.html", "index-name.html", "index-file-size-dsc.html",
		"category/index.html", "category/maps/index.html", "category/maps/index-release-date-dsc.html",
		"tag/index.html", "tag/night/index.html",
		"creator/index.html", "creator/jane-doe/index.html",
		"mw/red-castle/index.html", "mw/blue-fort/index.html",
		"mw/red-castle/page.md", "mw/red-castle/readme.txt",
		"mw/red-castle/image/banner.jpg", "mw/red-castle/image/banner.webp",
		"mw/red-castle/image/preview-1-thumb.jpg",
		"about.html", "_static/search.js",
	} {
		assert.FileExists(t, filepath.Join(f.out, filepath.FromSlash(p)))
	}
	assert.NoFileExists(t, filepath.Join(f.out, "mw", "red-castle", "image", "bogus.jpg"))

	modPage := readOut(t, f.out, "mw/red-castle/index.html")
	assert.Contains(t, modPage, `<p class="center">Welcome</p>`)
	assert.Contains(t, modPage, `href="../../tag/night/index.html"`)
	assert.Contains(t, modPage, `href="#preview-2"`)
	assert.NotContains(t, modPage, "reserved")

	assert.Contains(t, readOut(t, f.out, "about.html"), "<p>hello</p>")

	var manifest []any
	require.NoError(t, json.Unmarshal([]byte(readOut(t, f.out, IndexFile)), &manifest))
	assert.Equal(t, []any{"nextmod-v1", map[string]any{"id": "blue-fort"}, map[string]any{"id": "red-castle"}}, manifest)

	var search struct {
		Mods map[string]struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"mods"`
	}
	require.NoError(t, json.Unmarshal([]byte(readOut(t, f.out, SearchDataFile)), &search))
	assert.Equal(t, "mw/red-castle/image/preview-1-thumb.jpg", search.Mods["red-castle"].Thumbnail)
	assert.Equal(t, "", search.Mods["blue-fort"].Thumbnail)

	listing := readOut(t, f.out, "category/maps/index.html")
	assert.Contains(t, listing, `srcset="../../mw/red-castle/image/preview-1-thumb.jpg"`)

	require.NotNil(t, res.Verify)
	assert.True(t, res.Verify.OK(), "%+v", res.Verify.Broken)
}

func TestBuild_SkipTranscode(t *testing.T) {
	f := newFixture(t)
	_, err := f.assembler(t, Options{Images: gallery.Options{SkipTranscode: true}}).Build(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(f.out, "mw", "red-castle", "image", "banner.png"))
	assert.NoFileExists(t, filepath.Join(f.out, "mw", "red-castle", "image", "banner.webp"))
}

func TestBuild_EnumerationFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.src))

	res, err := f.assembler(t, Options{}).Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Zero(t, res.Pages)
	assert.NoFileExists(t, filepath.Join(f.out, "index.html"))
}

func TestBuild_RemoteEnumerationFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	out, err := output.New(f.out)
	require.NoError(t, err)
	r, err := render.NewHTMLRenderer("")
	require.NoError(t, err)

	src := failingSource{err: errors.AuthError("forge API error: 401 Unauthorized").Build()}
	_, err = New(src, out, r, Options{}, nil).Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Equal(t, errors.CategoryAuth, errors.GetCategory(err))
	assert.NoFileExists(t, filepath.Join(f.out, "index.html"))
}

func TestBuild_PanickingModIsSkipped(t *testing.T) {
	f := newFixture(t)
	out, err := output.New(f.out)
	require.NoError(t, err)
	r, err := render.NewHTMLRenderer("")
	require.NoError(t, err)

	src := staticSource{repos: []forge.Repository{
		panickingRepository{forge.NewDirectoryRepository("red-castle", filepath.Join(f.src, "red-castle"))},
		forge.NewDirectoryRepository("blue-fort", filepath.Join(f.src, "blue-fort")),
	}}
	res, err := New(src, out, r, Options{}, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Mods)
	assert.Equal(t, 1, res.ModsFailed)

	assert.NoFileExists(t, filepath.Join(f.out, "mw", "red-castle", "index.html"))
	assert.FileExists(t, filepath.Join(f.out, "mw", "blue-fort", "index.html"))
	assert.FileExists(t, filepath.Join(f.out, "index.html"))
	assert.FileExists(t, filepath.Join(f.out, IndexFile))
}

func TestBuild_FailedModStillListed(t *testing.T) {
	f := newFixture(t)
	out, err := output.New(f.out)
	require.NoError(t, err)
	html, err := render.NewHTMLRenderer("")
	require.NoError(t, err)
	r := failingRenderer{Renderer: html, output: "mw/red-castle/index.html"}

	res, err := New(forge.NewDirectorySource(f.src), out, r, Options{
		Images: gallery.Options{ThumbnailSize: 16},
	}, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Mods)
	assert.Equal(t, 1, res.ModsFailed)

	assert.NoFileExists(t, filepath.Join(f.out, "mw", "red-castle", "index.html"))
	assert.FileExists(t, filepath.Join(f.out, "mw", "blue-fort", "index.html"))

	listing := readOut(t, f.out, "category/maps/index.html")
	assert.Contains(t, listing, "Red Castle")
	assert.Contains(t, listing, `srcset="../../mw/red-castle/image/preview-1-thumb.jpg"`)

	var manifest []any
	require.NoError(t, json.Unmarshal([]byte(readOut(t, f.out, IndexFile)), &manifest))
	assert.Contains(t, manifest, map[string]any{"id": "red-castle"})
}

func TestBuild_SandboxEscapeAborts(t *testing.T) {
	f := newFixture(t)
	out, err := output.New(f.out)
	require.NoError(t, err)
	r, err := render.NewHTMLRenderer("")
	require.NoError(t, err)

	src := staticSource{repos: []forge.Repository{
		forge.NewDirectoryRepository("../../escape", filepath.Join(f.src, "red-castle")),
	}}
	_, err = New(src, out, r, Options{}, nil).Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Equal(t, errors.CategorySecurity, errors.GetCategory(err))
}

func TestBuild_MissingAboutRendersEmptyPage(t *testing.T) {
	f := newFixture(t)
	_, err := f.assembler(t, Options{AboutFile: filepath.Join(t.TempDir(), "missing.md")}).Build(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.out, AboutPage))
}
