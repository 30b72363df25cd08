// Package forge normalizes access to the places mods are published.
//
// A Source enumerates mods; each mod is a Repository giving directory
// listings, file bytes, the data/ manifest and a popularity signal. The
// local directory, GitLab, GitHub and cloned-remotes backends satisfy the
// same interfaces, so nothing downstream knows which one is in use.
//
// Remote failures degrade instead of retrying: listings become empty, files
// become absent, and only the initial enumeration of a source can fail a
// build.
package forge
