package catalog

import (
	"strings"

	"gitlab.com/nextmod/nextmod/internal/modinfo"
)

// Search priorities of the indexed fields.
const (
	PriorityName        = 10
	PriorityCreator     = 8
	PriorityDescription = 3
)

// SearchMod is the per-mod record of the search index.
type SearchMod struct {
	Name        string            `json:"name"`
	Creators    []modinfo.Creator `json:"creators"`
	Description string            `json:"description"`
	Thumbnail   string            `json:"thumbnail"`
}

// SearchWord is one [word, priority, mod id] triple.
type SearchWord struct {
	Word     string
	Priority int
	ModID    string
}

// MarshalJSON encodes the word as a three element array.
func (w SearchWord) MarshalJSON() ([]byte, error) {
	return marshalNoEscape([]any{w.Word, w.Priority, w.ModID})
}

// SearchData is the content of search-data.json.
type SearchData struct {
	Mods  map[string]SearchMod `json:"mods"`
	Words []SearchWord         `json:"words"`
}

// BuildSearchData indexes the name, creator names and description of every
// mod. Words are produced in mod, field, token order.
func BuildSearchData(mods []Mod) SearchData {
	data := SearchData{
		Mods:  make(map[string]SearchMod, len(mods)),
		Words: []SearchWord{},
	}
	add := func(id, text string, prio int) {
		for _, w := range strings.Split(strings.ToLower(text), " ") {
			data.Words = append(data.Words, SearchWord{Word: w, Priority: prio, ModID: id})
		}
	}

	for _, m := range mods {
		creators := m.Info.Creators
		if creators == nil {
			creators = []modinfo.Creator{}
		}
		data.Mods[m.ID] = SearchMod{
			Name:        m.Info.Name,
			Creators:    creators,
			Description: m.Info.Description,
			Thumbnail:   searchThumbnail(m),
		}
		add(m.ID, m.Info.Name, PriorityName)
		for _, c := range m.Info.Creators {
			add(m.ID, c.Name, PriorityCreator)
		}
		add(m.ID, m.Info.Description, PriorityDescription)
	}
	return data
}

func searchThumbnail(m Mod) string {
	if len(m.Images.PreviewThumb) == 0 {
		return ""
	}
	return m.Images.PreviewThumb[0].Path
}

// IndexFormat tags the index.json manifest.
const IndexFormat = "nextmod-v1"

// IndexManifest lists every mod id behind the format tag.
func IndexManifest(mods []Mod) []any {
	manifest := make([]any, 0, len(mods)+1)
	manifest = append(manifest, IndexFormat)
	for _, m := range mods {
		manifest = append(manifest, map[string]string{"id": m.ID})
	}
	return manifest
}
