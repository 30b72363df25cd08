// Package git clones and refreshes the git remotes served by the remotes
// source.
//
// Clones are shallow and single-branch. An existing clone is refreshed by
// fetching the configured branch and hard-resetting the worktree to it, so
// local edits inside the workspace never survive a build.
package git
