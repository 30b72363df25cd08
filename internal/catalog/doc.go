// Package catalog builds the in-memory list of mods and everything derived
// from it: cross-reference groups, sorted listings, the search index and
// the index manifest.
//
// Mods are values. Load produces them from a forge.Source; later phases
// derive new values (Mod.WithImages) rather than mutating shared records.
package catalog
