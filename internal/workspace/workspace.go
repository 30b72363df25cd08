package workspace

import (
	"log/slog"
	"os"
	"path/filepath"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// Manager handles workspace operations (both temporary and persistent).
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// New returns a manager for cfg. A configured directory makes the workspace
// persistent unless Keep is false, in which case it is still removed on Cleanup.
func New(cfg config.WorkspaceConfig) *Manager {
	if cfg.Directory == "" {
		return &Manager{baseDir: os.TempDir()}
	}
	return &Manager{baseDir: cfg.Directory, dir: cfg.Directory, persistent: cfg.Keep}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.dir != "" {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return errors.FileSystemError("failed to create workspace directory").
				WithCause(err).
				WithContext("path", m.dir).
				Build()
		}
		slog.Info("Using workspace", logfields.Path(m.dir), slog.Bool("persistent", m.persistent))
		return nil
	}

	dir, err := os.MkdirTemp(m.baseDir, "nextmod-")
	if err != nil {
		return errors.FileSystemError("failed to create workspace directory").
			WithCause(err).
			WithContext("path", m.baseDir).
			Build()
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory, empty before Create.
func (m *Manager) Path() string {
	return m.dir
}

// Subdir returns the path of name inside the workspace.
func (m *Manager) Subdir(name string) string {
	return filepath.Join(m.dir, name)
}

// Cleanup removes the workspace directory unless it is persistent.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if m.persistent {
		slog.Debug("Keeping persistent workspace", logfields.Path(m.dir))
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return errors.FileSystemError("failed to clean up workspace").
			WithCause(err).
			WithContext("path", m.dir).
			Build()
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
