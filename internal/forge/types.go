package forge

import (
	"context"
	"iter"
)

// Well-known locations inside a mod repository.
const (
	DataDir     = "data"
	ImageDir    = "image"
	PageDir     = "page"
	ModInfoFile = "mod-info.md"
	TagsFile    = "tags.md"
)

// UnknownPopularity is returned by backends without a popularity concept.
const UnknownPopularity = -1

// DataFile is one entry of a mod's data/ manifest. Path is relative to data/.
type DataFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Repository gives read access to the files of one mod.
type Repository interface {
	// ID is the backend-assigned slug of the mod.
	ID() string
	// ListDir lists the names of the entries of dir. A missing directory yields nothing.
	ListDir(ctx context.Context, dir string) iter.Seq[string]
	// ListDataFiles walks data/ recursively. Failures yield an empty manifest.
	ListDataFiles(ctx context.Context) []DataFile
	// GetFile returns the bytes of path, or false when it does not exist.
	GetFile(ctx context.Context, path string) ([]byte, bool)
	// PopularitySignal returns a star count, or UnknownPopularity.
	PopularitySignal(ctx context.Context) int
}

// Source enumerates the mods of one backend.
type Source interface {
	Name() string
	// ListMods yields repositories in a stable order. A yielded error means
	// the source itself could not be enumerated.
	ListMods(ctx context.Context) iter.Seq2[Repository, error]
}
