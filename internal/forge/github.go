package forge

import (
	"context"
	"encoding/base64"
	"iter"
	"log/slog"
	"net/url"
	"strings"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// GitHubSource enumerates the repositories of an organization. Repositories
// without a mod-info.md are not mods and are skipped.
type GitHubSource struct {
	*BaseForge
	org string
	ref string
}

// NewGitHubSource creates a GitHub source from configuration.
func NewGitHubSource(cfg config.GitHubConfig, opts Options) *GitHubSource {
	base := NewBaseForge(opts.HTTPClient, cfg.APIURL, cfg.Token)
	base.SetCustomHeader("Accept", "application/vnd.github+json")
	base.SetCustomHeader("X-GitHub-Api-Version", "2022-11-28")
	base.SetCache(opts.Cache, opts.CacheTTL)
	base.SetRetryPolicy(opts.Retry)
	return &GitHubSource{BaseForge: base, org: cfg.Organization, ref: cfg.Ref}
}

// githubRepo represents a GitHub repository.
type githubRepo struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	DefaultBranch   string `json:"default_branch"`
	StargazersCount int    `json:"stargazers_count"`
	Archived        bool   `json:"archived"`
}

// githubContent is one element of the contents API.
type githubContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// githubTree is the git trees API response.
type githubTree struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

// githubBlob is the git blobs API response.
type githubBlob struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Name returns the backend name.
func (s *GitHubSource) Name() string { return "github" }

// ListMods yields every organization repository that carries a mod-info.md.
func (s *GitHubSource) ListMods(ctx context.Context) iter.Seq2[Repository, error] {
	return func(yield func(Repository, error) bool) {
		repos, err := fetchAllJSON[githubRepo](ctx, s.BaseForge, "orgs/"+url.PathEscape(s.org)+"/repos?type=public&sort=full_name")
		if err != nil {
			yield(nil, err)
			return
		}
		for _, repo := range repos {
			ref := s.ref
			if ref == "" {
				ref = repo.DefaultBranch
			}
			r := &GitHubRepository{base: s.BaseForge, repo: repo, ref: ref}
			if _, err := s.Head(ctx, r.contentsEndpoint(ModInfoFile)); err != nil {
				if errors.IsNotFound(err) {
					slog.Info("mod-info file not found in repository, skipping", logfields.Source(s.Name()), logfields.Mod(repo.Name))
				} else {
					slog.Warn("Failed to inspect repository, skipping", logfields.Source(s.Name()), logfields.Mod(repo.Name), logfields.Error(err))
				}
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// GitHubRepository reads one mod repository through the GitHub API.
type GitHubRepository struct {
	base *BaseForge
	repo githubRepo
	ref  string
}

// ID returns the repository name.
func (r *GitHubRepository) ID() string { return r.repo.Name }

func (r *GitHubRepository) repoEndpoint(suffix string) string {
	return "repos/" + escapeSegments(r.repo.FullName) + "/" + suffix
}

func (r *GitHubRepository) contentsEndpoint(p string) string {
	return r.repoEndpoint("contents/"+escapeSegments(p)) + "?ref=" + url.QueryEscape(r.ref)
}

// ListDir yields the names of the entries of dir.
func (r *GitHubRepository) ListDir(ctx context.Context, dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		clean, ok := cleanRepoPath(dir)
		if !ok {
			logDegraded(r.ID(), "list_dir", dir, ErrPathEscape)
			return
		}
		var entries []githubContent
		if _, err := r.base.GetJSON(ctx, r.contentsEndpoint(clean), &entries); err != nil {
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

// ListDataFiles reads the recursive git tree of the ref and keeps the blobs
// under data/.
func (r *GitHubRepository) ListDataFiles(ctx context.Context) []DataFile {
	var tree githubTree
	if _, err := r.base.GetJSON(ctx, r.repoEndpoint("git/trees/"+url.PathEscape(r.ref)+"?recursive=1"), &tree); err != nil {
		logDegraded(r.ID(), "list_data_files", DataDir, err)
		return nil
	}
	if tree.Truncated {
		slog.Warn("Repository tree truncated, data manifest is incomplete", logfields.Mod(r.ID()))
	}

	prefix := DataDir + "/"
	var files []DataFile
	for _, e := range tree.Tree {
		if e.Type != "blob" || !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		files = append(files, DataFile{Path: strings.TrimPrefix(e.Path, prefix), Size: e.Size})
	}
	return files
}

// GetFile fetches a file through the contents API. Files too large for
// inline content are read from the blobs API.
func (r *GitHubRepository) GetFile(ctx context.Context, p string) ([]byte, bool) {
	clean, ok := cleanRepoPath(p)
	if !ok || clean == "" {
		logDegraded(r.ID(), "get_file", p, ErrPathEscape)
		return nil, false
	}

	var content githubContent
	if _, err := r.base.GetJSON(ctx, r.contentsEndpoint(clean), &content); err != nil {
		logDegraded(r.ID(), "get_file", clean, err)
		return nil, false
	}
	if content.Type != "file" {
		return nil, false
	}

	encoded, encoding := content.Content, content.Encoding
	if encoded == "" && content.Size > 0 {
		var blob githubBlob
		if _, err := r.base.GetJSON(ctx, r.repoEndpoint("git/blobs/"+url.PathEscape(content.SHA)), &blob); err != nil {
			logDegraded(r.ID(), "get_file", clean, err)
			return nil, false
		}
		encoded, encoding = blob.Content, blob.Encoding
	}

	data, err := decodeContent(encoded, encoding)
	if err != nil {
		logDegraded(r.ID(), "get_file", clean, err)
		return nil, false
	}
	return data, true
}

func decodeContent(content, encoding string) ([]byte, error) {
	switch encoding {
	case "base64":
		return base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
	case "", "utf-8":
		return []byte(content), nil
	default:
		return nil, errors.ForgeError("unsupported content encoding").
			WithContext("encoding", encoding).
			Build()
	}
}

// PopularitySignal returns the repository's stargazer count.
func (r *GitHubRepository) PopularitySignal(context.Context) int { return r.repo.StargazersCount }

var (
	_ Source     = (*GitHubSource)(nil)
	_ Repository = (*GitHubRepository)(nil)
)
