package forge

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// GitLabSource enumerates mods from a GitLab group tree: the root group has
// one subgroup per game and every project in a subgroup is a mod.
type GitLabSource struct {
	*BaseForge
	group string
	ref   string
}

// NewGitLabSource creates a GitLab source from configuration.
func NewGitLabSource(cfg config.GitLabConfig, opts Options) *GitLabSource {
	base := NewBaseForge(opts.HTTPClient, cfg.APIURL, cfg.Token)
	base.SetCache(opts.Cache, opts.CacheTTL)
	base.SetRetryPolicy(opts.Retry)
	return &GitLabSource{BaseForge: base, group: cfg.Group, ref: cfg.Ref}
}

// gitlabGroup represents a GitLab group.
type gitlabGroup struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	FullPath string `json:"full_path"`
}

// gitlabProject represents a GitLab project (repository).
type gitlabProject struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	Path              string `json:"path"`
	PathWithNamespace string `json:"path_with_namespace"`
	DefaultBranch     string `json:"default_branch"`
	StarCount         int    `json:"star_count"`
	Archived          bool   `json:"archived"`
}

// gitlabTreeEntry is one element of a repository tree listing.
type gitlabTreeEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
}

// Name returns the backend name.
func (s *GitLabSource) Name() string { return "gitlab" }

// ListMods yields the projects of every game subgroup. A failure to read the
// root group or its subgroups is returned; a failing subgroup is skipped.
func (s *GitLabSource) ListMods(ctx context.Context) iter.Seq2[Repository, error] {
	return func(yield func(Repository, error) bool) {
		var root gitlabGroup
		if _, err := s.GetJSON(ctx, "groups/"+url.PathEscape(s.group), &root); err != nil {
			yield(nil, err)
			return
		}

		subgroups, err := fetchAllJSON[gitlabGroup](ctx, s.BaseForge, fmt.Sprintf("groups/%d/subgroups?order_by=name&sort=asc", root.ID))
		if err != nil {
			yield(nil, err)
			return
		}

		for _, sub := range subgroups {
			projects, err := fetchAllJSON[gitlabProject](ctx, s.BaseForge, fmt.Sprintf("groups/%d/projects?order_by=name&sort=asc&archived=false", sub.ID))
			if err != nil {
				slog.Warn("Failed to list game subgroup, skipping",
					logfields.Source(s.Name()), logfields.Group(sub.FullPath), logfields.Error(err))
				continue
			}
			for _, p := range projects {
				ref := s.ref
				if ref == "" {
					ref = p.DefaultBranch
				}
				if !yield(&GitLabRepository{base: s.BaseForge, project: p, ref: ref}, nil) {
					return
				}
			}
		}
	}
}

// GitLabRepository reads one mod project through the GitLab API.
type GitLabRepository struct {
	base    *BaseForge
	project gitlabProject
	ref     string
}

// ID returns the project path slug.
func (r *GitLabRepository) ID() string { return r.project.Path }

func (r *GitLabRepository) projectEndpoint(suffix string) string {
	return "projects/" + strconv.Itoa(r.project.ID) + "/" + suffix
}

func (r *GitLabRepository) tree(ctx context.Context, dir string, recursive bool) ([]gitlabTreeEntry, error) {
	q := url.Values{}
	q.Set("path", dir)
	q.Set("ref", r.ref)
	if recursive {
		q.Set("recursive", "true")
	}
	return fetchAllJSON[gitlabTreeEntry](ctx, r.base, r.projectEndpoint("repository/tree?"+q.Encode()))
}

// ListDir yields the names of the tree entries of dir.
func (r *GitLabRepository) ListDir(ctx context.Context, dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		clean, ok := cleanRepoPath(dir)
		if !ok {
			logDegraded(r.ID(), "list_dir", dir, ErrPathEscape)
			return
		}
		entries, err := r.tree(ctx, clean, false)
		if err != nil {
			logDegraded(r.ID(), "list_dir", clean, err)
			return
		}
		for _, e := range entries {
			if !yield(e.Name) {
				return
			}
		}
	}
}

// ListDataFiles walks data/ and looks up every blob's size. Any failure
// yields an empty manifest.
func (r *GitLabRepository) ListDataFiles(ctx context.Context) []DataFile {
	entries, err := r.tree(ctx, DataDir, true)
	if err != nil {
		logDegraded(r.ID(), "list_data_files", DataDir, err)
		return nil
	}

	var files []DataFile
	for _, e := range entries {
		if e.Type != "blob" {
			continue
		}
		header, err := r.base.Head(ctx, r.fileEndpoint(e.Path, ""))
		if err != nil {
			logDegraded(r.ID(), "list_data_files", e.Path, err)
			return nil
		}
		size, err := strconv.ParseInt(header.Get("X-Gitlab-Size"), 10, 64)
		if err != nil {
			logDegraded(r.ID(), "list_data_files", e.Path, fmt.Errorf("invalid X-Gitlab-Size header: %w", err))
			return nil
		}
		files = append(files, DataFile{Path: strings.TrimPrefix(e.Path, DataDir+"/"), Size: size})
	}
	return files
}

func (r *GitLabRepository) fileEndpoint(p, suffix string) string {
	return r.projectEndpoint("repository/files/"+url.PathEscape(p)+suffix) + "?ref=" + url.QueryEscape(r.ref)
}

// GetFile fetches the raw file at the configured ref.
func (r *GitLabRepository) GetFile(ctx context.Context, p string) ([]byte, bool) {
	clean, ok := cleanRepoPath(p)
	if !ok || clean == "" {
		logDegraded(r.ID(), "get_file", p, ErrPathEscape)
		return nil, false
	}
	data, _, err := r.base.Get(ctx, r.fileEndpoint(clean, "/raw"))
	if err != nil {
		logDegraded(r.ID(), "get_file", clean, err)
		return nil, false
	}
	return data, true
}

// PopularitySignal returns the project's star count.
func (r *GitLabRepository) PopularitySignal(context.Context) int { return r.project.StarCount }

var (
	_ Source     = (*GitLabSource)(nil)
	_ Repository = (*GitLabRepository)(nil)
)
