package catalog

import (
	"gitlab.com/nextmod/nextmod/internal/modinfo"
	"gitlab.com/nextmod/nextmod/internal/sitepath"
)

// Key is one grouping key produced by a mod.
type Key struct {
	ID   string
	Name string
}

// GroupSpec is a grouping axis.
type GroupSpec struct {
	ID       string
	Name     string
	Singular string
	// Keys extracts the keys of m on this axis.
	Keys func(m Mod) []Key
}

// GroupEntry lists the mods that produced one key.
type GroupEntry struct {
	GroupID string
	ID      string
	Name    string
	Mods    []Mod
}

// Ref addresses the entry's listing page.
func (e GroupEntry) Ref() sitepath.Ref {
	return sitepath.GroupEntryRef{GroupID: e.GroupID, EntryID: e.ID}
}

// Group pairs a spec with its entries in first-seen order.
type Group struct {
	Spec    GroupSpec
	Entries []GroupEntry
}

// Ref addresses the group's overview page.
func (g Group) Ref() sitepath.Ref { return sitepath.GroupRef{GroupID: g.Spec.ID} }

// DefaultGroupSpecs returns the category, tag and creator axes.
func DefaultGroupSpecs() []GroupSpec {
	return []GroupSpec{
		{
			ID: "category", Name: "Categories", Singular: "Category",
			Keys: func(m Mod) []Key {
				return []Key{{ID: m.Info.Category.ID, Name: m.Info.Category.Name}}
			},
		},
		{
			ID: "tag", Name: "Tags", Singular: "Tag",
			Keys: func(m Mod) []Key { return tagKeys(m.Info.Tags) },
		},
		{
			ID: "creator", Name: "Creators", Singular: "Creator",
			Keys: func(m Mod) []Key { return creatorKeys(m.Info.Creators) },
		},
	}
}

func tagKeys(tags []modinfo.Tag) []Key {
	keys := make([]Key, 0, len(tags))
	for _, t := range tags {
		keys = append(keys, Key{ID: t.ID, Name: t.Name})
	}
	return keys
}

func creatorKeys(creators []modinfo.Creator) []Key {
	keys := make([]Key, 0, len(creators))
	for _, c := range creators {
		keys = append(keys, Key{ID: c.ID, Name: c.Name})
	}
	return keys
}

// BuildGroups derives one Group per spec. Entries appear in the order their
// key was first seen; the display name is the last one seen for that key.
// A mod that yields the same key twice is listed twice.
func BuildGroups(mods []Mod, specs []GroupSpec) []Group {
	groups := make([]Group, 0, len(specs))
	for _, spec := range specs {
		var order []string
		names := make(map[string]string)
		members := make(map[string][]Mod)

		for _, m := range mods {
			for _, k := range spec.Keys(m) {
				if _, ok := names[k.ID]; !ok {
					order = append(order, k.ID)
				}
				names[k.ID] = k.Name
				members[k.ID] = append(members[k.ID], m)
			}
		}

		entries := make([]GroupEntry, 0, len(order))
		for _, id := range order {
			entries = append(entries, GroupEntry{
				GroupID: spec.ID,
				ID:      id,
				Name:    names[id],
				Mods:    members[id],
			})
		}
		groups = append(groups, Group{Spec: spec, Entries: entries})
	}
	return groups
}
