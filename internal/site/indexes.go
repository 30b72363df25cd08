package site

import (
	"context"
	"maps"
	"path"

	"gitlab.com/nextmod/nextmod/internal/catalog"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/observability"
	"gitlab.com/nextmod/nextmod/internal/render"
)

const listingBaseName = "index"

// renderIndexes writes the root listing, one overview page per group and
// one listing per group entry. Each listing is written in every sort variant.
func (a *Assembler) renderIndexes(ctx context.Context) error {
	if err := a.renderListing(ctx, "", a.mods, nil); err != nil {
		return err
	}

	for _, group := range a.groups {
		data := a.baseData()
		data["group"] = group
		page := render.Page{Template: render.TemplateGroup, Output: group.Ref().LogicalPath()}
		if err := tolerate(ctx, a.writePage(page, data), "Failed to render group page", logfields.Group(group.Spec.ID)); err != nil {
			return err
		}

		for _, entry := range group.Entries {
			if entry.ID == "" {
				observability.WarnContext(ctx, "Mods without a value, listing skipped",
					logfields.Group(group.Spec.ID), logfields.Count(len(entry.Mods)))
				continue
			}
			extra := render.Data{"group": group, "group_entry": entry}
			if err := a.renderListing(ctx, path.Join(group.Spec.ID, entry.ID), entry.Mods, extra); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Assembler) renderListing(ctx context.Context, dir string, mods []catalog.Mod, extra render.Data) error {
	links := catalog.SortLinks(dir, listingBaseName)
	for _, by := range catalog.SortBys() {
		for _, order := range catalog.SortOrders() {
			data := a.baseData()
			maps.Copy(data, extra)
			data["mods"] = catalog.Sort(mods, by, order)
			data["sort_links"] = links
			data["sort_by"] = by
			data["sort_order"] = order
			data["base_name"] = listingBaseName

			page := render.Page{
				Template: render.TemplateIndex,
				Output:   catalog.ListingFile(dir, listingBaseName, by, order),
			}
			if err := tolerate(ctx, a.writePage(page, data), "Failed to render listing", logfields.Path(page.Output)); err != nil {
				return err
			}
		}
	}
	return nil
}
