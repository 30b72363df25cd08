package catalog

import (
	"cmp"
	"path"
	"slices"
	"strings"
)

// SortBy is a listing sort key. ID is the file name suffix of its variant.
type SortBy struct {
	ID   string
	Name string
	// Reverse makes descending the natural order.
	Reverse bool
	compare func(a, b Mod) int
}

// SortOrder selects natural or inverted order.
type SortOrder struct {
	ID      string
	Reverse bool
}

// SortBys lists the sort keys in menu order. The first is the default listing.
func SortBys() []SortBy {
	return []SortBy{
		{ID: "", Name: "Update Date", Reverse: true, compare: func(a, b Mod) int {
			return strings.Compare(a.Info.UpdateDate, b.Info.UpdateDate)
		}},
		{ID: "-name", Name: "Name", compare: func(a, b Mod) int {
			return strings.Compare(a.Info.Name, b.Info.Name)
		}},
		{ID: "-release-date", Name: "Release Date", Reverse: true, compare: func(a, b Mod) int {
			return strings.Compare(a.Info.ReleaseDate, b.Info.ReleaseDate)
		}},
		{ID: "-file-count", Name: "File Count", compare: func(a, b Mod) int {
			return cmp.Compare(a.FileCount(), b.FileCount())
		}},
		{ID: "-file-size", Name: "File Size", compare: func(a, b Mod) int {
			return cmp.Compare(a.DataFilesSize, b.DataFilesSize)
		}},
	}
}

// SortOrders lists the natural and the inverted order.
func SortOrders() []SortOrder {
	return []SortOrder{
		{ID: ""},
		{ID: "-dsc", Reverse: true},
	}
}

// Sort returns a sorted copy of mods. Mods with equal keys keep their
// relative order in either direction.
func Sort(mods []Mod, by SortBy, order SortOrder) []Mod {
	reverse := by.Reverse != order.Reverse
	sorted := slices.Clone(mods)
	slices.SortStableFunc(sorted, func(a, b Mod) int {
		if reverse {
			return by.compare(b, a)
		}
		return by.compare(a, b)
	})
	return sorted
}

// ListingFile is the logical path of one listing variant.
func ListingFile(dir, baseName string, by SortBy, order SortOrder) string {
	return path.Join(dir, baseName+by.ID+order.ID+".html")
}

// SortLink points at the ascending and descending variants of one sort key.
type SortLink struct {
	ID     string
	Name   string
	AscURL string
	DscURL string
}

// SortLinks builds the sort menu of the listing rooted at dir/baseName.
// URLs are logical paths.
func SortLinks(dir, baseName string) []SortLink {
	orders := SortOrders()
	var links []SortLink
	for _, by := range SortBys() {
		links = append(links, SortLink{
			ID:     by.ID,
			Name:   by.Name,
			AscURL: ListingFile(dir, baseName, by, orders[0]),
			DscURL: ListingFile(dir, baseName, by, orders[1]),
		})
	}
	return links
}
