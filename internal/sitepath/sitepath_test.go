package sitepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		want    string
	}{
		{"sibling item", "mw/123/index.html", "mw/456/index.html", "../456/index.html"},
		{"root to category", "index.html", "category/foo/index.html", "./category/foo/index.html"},
		{"item to own image", "mw/a/index.html", "mw/a/image/banner.jpg", "./image/banner.jpg"},
		{"entry listing to root", "tag/maps/index.html", "index.html", "../../index.html"},
		{"entry listing to item", "tag/maps/index-name.html", "mw/x/index.html", "../../mw/x/index.html"},
		{"group page to entry", "tag/index.html", "tag/maps/index.html", "./maps/index.html"},
		{"same page", "about.html", "about.html", "./about.html"},
		{"root to root file", "index.html", "search-data.json", "./search-data.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.current, tt.target))
		})
	}
}

func TestRefLogicalPaths(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{ItemRef{"red-castle"}, "mw/red-castle/index.html"},
		{CategoryRef{"maps"}, "category/maps/index.html"},
		{TagRef{"pvp"}, "tag/pvp/index.html"},
		{CreatorRef{"jane-doe"}, "creator/jane-doe/index.html"},
		{GroupRef{"tag"}, "tag/index.html"},
		{GroupEntryRef{"creator", "jane-doe"}, "creator/jane-doe/index.html"},
		{RawPath{"/mw/a/image/x.jpg"}, "mw/a/image/x.jpg"},
		{RawPath{"a\\b.html"}, "a/b.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ref.LogicalPath())
	}
}

func TestCleanKeepsEscapes(t *testing.T) {
	assert.Equal(t, "../../etc/passwd", Clean("../../etc/passwd"))
	assert.Equal(t, "../etc/index.html", ItemRef{"../../etc"}.LogicalPath())
	assert.Equal(t, ".", Clean(""))
}

func TestResolver(t *testing.T) {
	r := For("mw/123/index.html")
	assert.Equal(t, "../456/index.html", r.Ref(ItemRef{"456"}))
	assert.Equal(t, "../../tag/pvp/index.html", r.Ref(TagRef{"pvp"}))
	assert.Equal(t, "../../_static/site.css", r.Path("_static/site.css"))
	assert.Equal(t, "../..", r.Root())
	assert.Equal(t, ".", For("index.html").Root())
}
