package gallery

import (
	"slices"
	"strings"
)

// Source is one published rendition of an image.
type Source struct {
	// Path is the logical output path, e.g. mw/<id>/image/banner.jpg.
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
}

// PreviewEntry is one image of the gallery with its neighbours.
type PreviewEntry struct {
	ID           string
	PrevID       string
	NextID       string
	Sources      []Source
	ThumbSources []Source
}

// Images is the result of processing a mod's image directory.
type Images struct {
	Banner   []Source
	Previews []PreviewEntry
	// PreviewThumb are the thumbnail sources of the first preview, used by listings.
	PreviewThumb []Source
}

// HasGallery reports whether any preview was published.
func (i Images) HasGallery() bool { return len(i.Previews) > 0 }

// linkPreviews sorts previews by id and links them into a single cycle.
func linkPreviews(previews []PreviewEntry) []PreviewEntry {
	linked := slices.Clone(previews)
	slices.SortStableFunc(linked, func(a, b PreviewEntry) int { return strings.Compare(a.ID, b.ID) })

	n := len(linked)
	for i := range linked {
		linked[i].PrevID = linked[(i-1+n)%n].ID
		linked[i].NextID = linked[(i+1)%n].ID
	}
	return linked
}

// newImages assembles the final value; the first preview provides the listing thumbnail.
func newImages(banner []Source, previews []PreviewEntry) Images {
	img := Images{Banner: banner}
	if len(previews) == 0 {
		return img
	}
	img.Previews = linkPreviews(previews)
	img.PreviewThumb = img.Previews[0].ThumbSources
	return img
}
