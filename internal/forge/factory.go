package forge

import (
	"io"
	"net/http"
	"time"

	"gitlab.com/nextmod/nextmod/internal/cache"
	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/retry"
	"gitlab.com/nextmod/nextmod/internal/workspace"
)

// Options carries the shared dependencies of the remote backends.
type Options struct {
	HTTPClient *http.Client
	Cache      cache.Cache
	CacheTTL   time.Duration
	// Retry applies to the GitLab and GitHub APIs. The zero policy never retries.
	Retry retry.Policy
}

// NewSource creates the source selected by cfg.Type.
func NewSource(cfg config.SourceConfig, opts Options) (Source, error) {
	switch cfg.Type {
	case config.SourceLocal:
		return NewDirectorySource(cfg.Directory), nil
	case config.SourceGitLab:
		return NewGitLabSource(cfg.GitLab, opts), nil
	case config.SourceGitHub:
		return NewGitHubSource(cfg.GitHub, opts), nil
	case config.SourceRemotes:
		src, err := NewRemotesSource(cfg.Remotes, workspace.New(cfg.Workspace))
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, ErrSourceUnsupported.WithContext("type", string(cfg.Type))
	}
}

// Close releases resources held by src, if it holds any.
func Close(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
