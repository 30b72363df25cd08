package forge

import (
	"context"
	"iter"
	"log/slog"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/git"
	"gitlab.com/nextmod/nextmod/internal/logfields"
	"gitlab.com/nextmod/nextmod/internal/workspace"
)

// RemotesSource clones a configured list of git repositories into a
// workspace and serves each clone like a local mod directory.
type RemotesSource struct {
	remotes   []config.RemoteConfig
	workspace *workspace.Manager
	client    *git.Client
}

// NewRemotesSource prepares the workspace for the given remotes.
func NewRemotesSource(remotes []config.RemoteConfig, ws *workspace.Manager) (*RemotesSource, error) {
	if err := ws.Create(); err != nil {
		return nil, err
	}
	return &RemotesSource{remotes: remotes, workspace: ws, client: git.NewClient(ws.Path())}, nil
}

// Name returns the backend name.
func (s *RemotesSource) Name() string { return "remotes" }

// ListMods syncs every remote in configuration order. A remote that cannot be
// cloned or updated is logged and skipped.
func (s *RemotesSource) ListMods(ctx context.Context) iter.Seq2[Repository, error] {
	return func(yield func(Repository, error) bool) {
		for _, remote := range s.remotes {
			dir, err := s.client.Sync(ctx, remote)
			if err != nil {
				slog.Error("Failed to sync remote, skipping",
					logfields.Mod(remote.Name), logfields.URL(remote.URL), logfields.Error(err))
				continue
			}
			if !yield(NewDirectoryRepository(remote.Name, dir), nil) {
				return
			}
		}
	}
}

// Close removes the workspace unless it is persistent.
func (s *RemotesSource) Close() error {
	return s.workspace.Cleanup()
}

var _ Source = (*RemotesSource)(nil)
