// Package modinfo reads the small markdown dialect used for mod metadata
// (mod-info.md, tags.md) and for the instance configuration
// (nextmod-config.md).
//
// The dialect is line based: "# " starts a header, "* " starts a list item,
// any other non-empty line is text. What a line means depends on the most
// recent header, which each file grammar interprets through a LineHandler.
package modinfo
