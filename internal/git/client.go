package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// Client handles Git operations inside one workspace directory.
type Client struct {
	workspaceDir string
}

// NewClient creates a new Git client with the specified workspace directory.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// PathFor returns the clone directory used for remote.
func (c *Client) PathFor(remote config.RemoteConfig) string {
	return filepath.Join(c.workspaceDir, remote.Name)
}

// Sync makes the workspace copy of remote match its configured branch,
// cloning when no clone exists yet. It returns the clone directory.
func (c *Client) Sync(ctx context.Context, remote config.RemoteConfig) (string, error) {
	repoPath := c.PathFor(remote)
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
		return c.clone(ctx, remote, repoPath)
	}
	if err := c.update(ctx, remote, repoPath); err != nil {
		return "", err
	}
	return repoPath, nil
}

func (c *Client) clone(ctx context.Context, remote config.RemoteConfig, repoPath string) (string, error) {
	slog.Debug("Cloning repository", logfields.URL(remote.URL), logfields.Source(remote.Name), logfields.Path(repoPath))
	if err := os.RemoveAll(repoPath); err != nil {
		return "", errors.FileSystemError("failed to remove stale clone directory").
			WithCause(err).
			WithContext("path", repoPath).
			Build()
	}

	opts := &git.CloneOptions{
		URL:           remote.URL,
		ReferenceName: plumbing.NewBranchReferenceName(remote.Branch),
		SingleBranch:  true,
		Tags:          git.NoTags,
		Auth:          authFor(remote.Token),
	}
	repository, err := git.PlainCloneContext(ctx, repoPath, false, opts)
	if err != nil {
		return "", classify("clone", remote, err)
	}
	logHead(repository, remote, "Repository cloned")
	return repoPath, nil
}

func (c *Client) update(ctx context.Context, remote config.RemoteConfig, repoPath string) error {
	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return errors.GitError("failed to open clone").
			WithCause(err).
			WithContext("path", repoPath).
			Build()
	}

	refSpec := ggitcfg.RefSpec("+refs/heads/" + remote.Branch + ":refs/remotes/origin/" + remote.Branch)
	err = repository.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{refSpec},
		Tags:       git.NoTags,
		Force:      true,
		Auth:       authFor(remote.Token),
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return classify("fetch", remote, err)
	}

	remoteRef, err := repository.Reference(plumbing.NewRemoteReferenceName("origin", remote.Branch), true)
	if err != nil {
		return classify("resolve", remote, err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return classify("worktree", remote, err)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return classify("reset", remote, err)
	}
	logHead(repository, remote, "Repository updated")
	return nil
}

func logHead(repository *git.Repository, remote config.RemoteConfig, msg string) {
	attrs := []any{logfields.Source(remote.Name), logfields.URL(remote.URL), slog.String("branch", remote.Branch)}
	if ref, err := repository.Head(); err == nil {
		attrs = append(attrs, slog.String("commit", ref.Hash().String()[:8]))
	}
	slog.Info(msg, attrs...)
}
