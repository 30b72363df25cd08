// Package workspace manages the directory that remote mods are cloned into.
//
// Without a configured directory the workspace is ephemeral: a fresh
// nextmod-* directory under the system temp dir, removed on Cleanup.
// A configured directory is persistent, so later builds only fetch the
// changes of each remote instead of cloning it again.
package workspace
