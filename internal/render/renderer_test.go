package render

import (
	"html/template"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/nextmod/nextmod/internal/catalog"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/gallery"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
	"gitlab.com/nextmod/nextmod/internal/sitepath"
)

func testData() Data {
	mod := catalog.Mod{
		ID: "red-castle",
		Info: modinfo.Info{
			Name:     "Red <Castle>",
			Creators: []modinfo.Creator{modinfo.NewCreator("Jane Doe")},
			Category: modinfo.NewCategory("Maps"),
			Tags:     []modinfo.Tag{modinfo.NewTag("Night")},
		},
		Popularity: -1,
	}
	mod = mod.WithImages(gallery.Images{PreviewThumb: []gallery.Source{
		{Path: "mw/red-castle/image/preview-1-thumb.jpg", MimeType: "image/jpeg"},
	}})
	mods := []catalog.Mod{mod}
	return Data{
		"config":       modinfo.Instance{Name: "Test Site"},
		"mods":         mods,
		"groups":       catalog.BuildGroups(mods, catalog.DefaultGroupSpecs()),
		"generated_at": time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}

func TestHTMLRenderer_Index(t *testing.T) {
	r, err := NewHTMLRenderer("")
	require.NoError(t, err)

	data := testData()
	data["sort_links"] = catalog.SortLinks("", "index")
	data["sort_by"] = catalog.SortBys()[0]
	data["sort_order"] = catalog.SortOrders()[0]
	data["base_name"] = "index"

	out, err := r.Render(Page{Template: TemplateIndex, Output: "index.html"}, data)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Test Site</title>")
	assert.Contains(t, html, `href="./mw/red-castle/index.html"`)
	assert.Contains(t, html, `href="./category/index.html"`)
	assert.Contains(t, html, `href="./index-name-dsc.html"`)
	assert.Contains(t, html, `srcset="./mw/red-castle/image/preview-1-thumb.jpg"`)
	assert.Contains(t, html, "Red &lt;Castle&gt;")
	assert.Contains(t, html, "0 files, 0.00bytes")
	assert.Contains(t, html, "Generated 2024-01-02 03:04 UTC")
	assert.NotContains(t, html, "search-script")
}

func TestHTMLRenderer_ModLinksAreRelative(t *testing.T) {
	r, err := NewHTMLRenderer("")
	require.NoError(t, err)

	data := testData()
	data["mod"] = data["mods"].([]catalog.Mod)[0]
	data["page_html"] = template.HTML("<p>line one</p>\n<p>line two</p>")
	data["info_html"] = template.HTML("<h1>Name</h1>")
	data["has_static"] = true

	out, err := r.Render(Page{Template: TemplateMod, Output: "mw/red-castle/index.html"}, data)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `href="../../index.html"`)
	assert.Contains(t, html, `href="../../creator/jane-doe/index.html"`)
	assert.Contains(t, html, `href="../../tag/night/index.html"`)
	assert.Contains(t, html, `src="../../_static/search.js"`)
	assert.Contains(t, html, "<p>line one</p>\n\t\t<p>line two</p>")
	assert.NotContains(t, html, "Stars")
}

func TestHTMLRenderer_GroupAndAbout(t *testing.T) {
	r, err := NewHTMLRenderer("")
	require.NoError(t, err)

	data := testData()
	data["group"] = data["groups"].([]catalog.Group)[1]
	out, err := r.Render(Page{Template: TemplateGroup, Output: "tag/index.html"}, data)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<a href="./night/index.html">Night</a>`)

	data = testData()
	data["about_html"] = template.HTML("<p>About us</p>")
	out, err = r.Render(Page{Template: TemplateAbout, Output: "about.html"}, data)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<p>About us</p>")
}

func TestHTMLRenderer_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplateAbout),
		[]byte(`{{define "content"}}custom {{path "mw/x/index.html"}}{{end}}`), 0o600))

	r, err := NewHTMLRenderer(dir)
	require.NoError(t, err)

	out, err := r.Render(Page{Template: TemplateAbout, Output: "about.html"}, testData())
	require.NoError(t, err)
	assert.Contains(t, string(out), "custom ./mw/x/index.html")
}

func TestHTMLRenderer_BadOverrideIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplateMod), []byte(`{{define "content"}}{{end`), 0o600))

	_, err := NewHTMLRenderer(dir)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestHTMLRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewHTMLRenderer("")
	require.NoError(t, err)

	_, err = r.Render(Page{Template: "missing.html", Output: "x.html"}, Data{})
	require.Error(t, err)
	assert.Equal(t, errors.CategoryRender, errors.GetCategory(err))
}

func TestRef_RejectsUnaddressable(t *testing.T) {
	ref := funcs(sitepath.For("index.html"))["ref"].(func(any) (string, error))

	got, err := ref(sitepath.TagRef{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, "./tag/x/index.html", got)

	_, err = ref(42)
	require.Error(t, err)
}

func TestIndent(t *testing.T) {
	assert.Equal(t, template.HTML("a\n\t\tb"), Indent(2, "a\nb"))
	assert.Equal(t, template.HTML("a\n\t\tb"), Indent(2, "a\nb\n"))
	assert.Equal(t, template.HTML(""), Indent(1, ""))
}
