package modinfo

import "gitlab.com/nextmod/nextmod/internal/sitepath"

// Creator is an author credited in a mod's "Created by" section.
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is the single category a mod belongs to.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tag is a free-form label attached to a mod.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewCreator builds a Creator whose id is derived from name.
func NewCreator(name string) Creator { return Creator{ID: CreateIDFromName(name), Name: name} }

// NewCategory builds a Category whose id is derived from name.
func NewCategory(name string) Category { return Category{ID: CreateIDFromName(name), Name: name} }

// NewTag builds a Tag whose id is derived from name.
func NewTag(name string) Tag { return Tag{ID: CreateIDFromName(name), Name: name} }

func (c Creator) Ref() sitepath.Ref  { return sitepath.CreatorRef{ID: c.ID} }
func (c Category) Ref() sitepath.Ref { return sitepath.CategoryRef{ID: c.ID} }
func (t Tag) Ref() sitepath.Ref      { return sitepath.TagRef{ID: t.ID} }

// Info is the parsed content of a mod-info.md file.
type Info struct {
	Name        string
	Creators    []Creator
	Category    Category
	Description string
	Tags        []Tag
	ReleaseDate string
	UpdateDate  string
	Version     string
}
