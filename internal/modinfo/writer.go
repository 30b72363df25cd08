package modinfo

import (
	"bytes"
	"fmt"
)

// Markdown serializes info back into the mod-info.md dialect. Empty fields
// are omitted. Values containing line breaks do not survive a round trip.
func (info Info) Markdown() []byte {
	var buf bytes.Buffer
	single := func(header, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&buf, "# %s\n%s\n\n", header, value)
	}

	single(HeaderName, info.Name)
	if len(info.Creators) > 0 {
		fmt.Fprintf(&buf, "# %s\n", HeaderCreatedBy)
		for _, c := range info.Creators {
			fmt.Fprintf(&buf, "* %s\n", c.Name)
		}
		buf.WriteByte('\n')
	}
	single(HeaderCategory, info.Category.Name)
	single(HeaderDescription, info.Description)
	if len(info.Tags) > 0 {
		fmt.Fprintf(&buf, "# %s\n", HeaderTags)
		for _, t := range info.Tags {
			fmt.Fprintf(&buf, "* %s\n", t.Name)
		}
		buf.WriteByte('\n')
	}
	single(HeaderReleaseDate, info.ReleaseDate)
	single(HeaderUpdateDate, info.UpdateDate)
	single(HeaderVersion, info.Version)
	return buf.Bytes()
}
