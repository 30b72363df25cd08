package catalog

import (
	"context"
	"log/slog"

	"gitlab.com/nextmod/nextmod/internal/forge"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/modinfo"
)

// LoadOptions tune Load.
type LoadOptions struct {
	// Concurrency bounds the number of mods fetched at once.
	Concurrency int
}

// Load enumerates src, then fetches the metadata of every mod with bounded
// concurrency. The result keeps enumeration order. A mod id seen twice is
// reported and only its first occurrence is kept. Only an enumeration error
// fails the load.
func Load(ctx context.Context, src forge.Source, opts LoadOptions) ([]Mod, error) {
	slog.Info("Loading mod data", logfields.Source(src.Name()))

	var repos []forge.Repository
	seen := make(map[string]bool)
	for repo, err := range src.ListMods(ctx) {
		if err != nil {
			return nil, err
		}
		if seen[repo.ID()] {
			slog.Warn("Duplicate mod id, skipping", logfields.Source(src.Name()), logfields.Mod(repo.ID()))
			continue
		}
		seen[repo.ID()] = true
		repos = append(repos, repo)
	}

	mods := runOrdered(repos, opts.Concurrency, func(repo forge.Repository) Mod {
		return loadMod(ctx, repo)
	})
	slog.Info("Loaded mods", logfields.Source(src.Name()), logfields.Count(len(mods)))
	return mods, nil
}

func loadMod(ctx context.Context, repo forge.Repository) Mod {
	slog.Debug("Loading mod data", logfields.Mod(repo.ID()))

	popularity := repo.PopularitySignal(ctx)
	dataFiles := repo.ListDataFiles(ctx)

	infoData, ok := repo.GetFile(ctx, forge.ModInfoFile)
	if !ok {
		slog.Warn("Mod has no mod-info.md", logfields.Mod(repo.ID()))
	}
	info := modinfo.ParseInfo(infoData)

	if tagsData, ok := repo.GetFile(ctx, forge.TagsFile); ok {
		info = info.WithTags(modinfo.ParseTags(tagsData))
	}
	return NewMod(repo, info, dataFiles, popularity)
}
