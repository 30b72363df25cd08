package catalog

import (
	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/gallery"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
	"gitlab.com/nextmod/nextmod/internal/sitepath"
)

// Mod is one content item of the catalog.
type Mod struct {
	ID            string
	Info          modinfo.Info
	DataFiles     []forge.DataFile
	DataFilesSize int64
	// Popularity is a star count, or forge.UnknownPopularity.
	Popularity int
	Images     gallery.Images

	repo forge.Repository
}

// NewMod creates a mod backed by repo.
func NewMod(repo forge.Repository, info modinfo.Info, dataFiles []forge.DataFile, popularity int) Mod {
	var size int64
	for _, f := range dataFiles {
		size += f.Size
	}
	return Mod{
		ID:            repo.ID(),
		Info:          info,
		DataFiles:     dataFiles,
		DataFilesSize: size,
		Popularity:    popularity,
		repo:          repo,
	}
}

// Repository returns the backing repository, used to read page files.
func (m Mod) Repository() forge.Repository { return m.repo }

// WithImages returns a copy of m carrying the processed images.
func (m Mod) WithImages(images gallery.Images) Mod {
	m.Images = images
	return m
}

// Ref addresses the mod's page.
func (m Mod) Ref() sitepath.Ref { return sitepath.ItemRef{ID: m.ID} }

// Link is the logical path of the mod's page.
func (m Mod) Link() string { return m.Ref().LogicalPath() }

// FileCount is the number of data files.
func (m Mod) FileCount() int { return len(m.DataFiles) }
