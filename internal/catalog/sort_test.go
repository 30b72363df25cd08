package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
)

func sortFixture() []Mod {
	return []Mod{
		{ID: "a", Info: modinfo.Info{Name: "Bravo", UpdateDate: "2021-01-01", ReleaseDate: "2020-01-01"},
			DataFiles: []forge.DataFile{{Path: "1", Size: 10}}, DataFilesSize: 10},
		{ID: "b", Info: modinfo.Info{Name: "Alpha", UpdateDate: "2022-01-01", ReleaseDate: "2020-01-01"},
			DataFiles: []forge.DataFile{{Path: "1", Size: 1}, {Path: "2", Size: 1}}, DataFilesSize: 2},
		{ID: "c", Info: modinfo.Info{Name: "Charlie", UpdateDate: "2021-01-01", ReleaseDate: "2019-01-01"},
			DataFilesSize: 0},
	}
}

func sortByID(t *testing.T, id string) SortBy {
	t.Helper()
	for _, by := range SortBys() {
		if by.ID == id {
			return by
		}
	}
	require.Failf(t, "unknown sort", "%q", id)
	return SortBy{}
}

func TestSort(t *testing.T) {
	natural, inverted := SortOrders()[0], SortOrders()[1]
	tests := []struct {
		by    string
		order SortOrder
		want  []string
	}{
		{"", natural, []string{"b", "a", "c"}},
		{"", inverted, []string{"a", "c", "b"}},
		{"-name", natural, []string{"b", "a", "c"}},
		{"-name", inverted, []string{"c", "a", "b"}},
		{"-release-date", natural, []string{"a", "b", "c"}},
		{"-release-date", inverted, []string{"c", "a", "b"}},
		{"-file-count", natural, []string{"c", "a", "b"}},
		{"-file-count", inverted, []string{"b", "a", "c"}},
		{"-file-size", natural, []string{"c", "b", "a"}},
		{"-file-size", inverted, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.by+tt.order.ID, func(t *testing.T) {
			mods := sortFixture()
			got := Sort(mods, sortByID(t, tt.by), tt.order)
			assert.Equal(t, tt.want, modIDs(got))
			assert.Equal(t, []string{"a", "b", "c"}, modIDs(mods), "input is not modified")
		})
	}
}

func TestSortLinks(t *testing.T) {
	links := SortLinks("tag/night", "index")
	require.Len(t, links, 5)
	assert.Equal(t, SortLink{ID: "", Name: "Update Date", AscURL: "tag/night/index.html", DscURL: "tag/night/index-dsc.html"}, links[0])
	assert.Equal(t, "tag/night/index-file-size-dsc.html", links[4].DscURL)

	root := SortLinks("", "index")
	assert.Equal(t, "index-name.html", root[1].AscURL)
}
