package forge

import (
	"context"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// DirectorySource serves every sub-directory of a local root as one mod.
type DirectorySource struct {
	root string
}

// NewDirectorySource creates a source rooted at root.
func NewDirectorySource(root string) *DirectorySource {
	return &DirectorySource{root: root}
}

// Name returns the backend name.
func (s *DirectorySource) Name() string { return "local" }

// ListMods yields one repository per sub-directory, in name order.
// Hidden directories and plain files are ignored.
func (s *DirectorySource) ListMods(_ context.Context) iter.Seq2[Repository, error] {
	return func(yield func(Repository, error) bool) {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			yield(nil, errors.FileSystemError("failed to read mod directory").
				WithCause(err).
				WithContext("path", s.root).
				Fatal().
				Build())
			return
		}
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") || !isDir(filepath.Join(s.root, name)) {
				slog.Debug("Skipping non-mod entry", logfields.Path(filepath.Join(s.root, name)))
				continue
			}
			if !yield(NewDirectoryRepository(name, filepath.Join(s.root, name)), nil) {
				return
			}
		}
	}
}

// isDir follows symlinks, so a linked mod directory counts.
func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// DirectoryRepository reads one mod from the local filesystem.
type DirectoryRepository struct {
	id   string
	root string
}

// NewDirectoryRepository creates a repository for the mod id stored at root.
func NewDirectoryRepository(id, root string) *DirectoryRepository {
	return &DirectoryRepository{id: id, root: root}
}

// ID returns the directory name the mod was found under.
func (r *DirectoryRepository) ID() string { return r.id }

// Root returns the directory backing the repository.
func (r *DirectoryRepository) Root() string { return r.root }

func (r *DirectoryRepository) resolve(p string) (string, error) {
	clean, ok := cleanRepoPath(p)
	if !ok {
		return "", ErrPathEscape.WithContext("path", p)
	}
	return filepath.Join(r.root, filepath.FromSlash(clean)), nil
}

// ListDir yields entry names of dir in name order.
func (r *DirectoryRepository) ListDir(_ context.Context, dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		full, err := r.resolve(dir)
		if err != nil {
			logDegraded(r.id, "list_dir", dir, err)
			return
		}
		entries, err := os.ReadDir(full)
		if err != nil {
			if !os.IsNotExist(err) {
				logDegraded(r.id, "list_dir", dir, err)
			}
			return
		}
		for _, entry := range entries {
			if !yield(entry.Name()) {
				return
			}
		}
	}
}

// ListDataFiles walks data/ and reports regular files with their sizes.
func (r *DirectoryRepository) ListDataFiles(_ context.Context) []DataFile {
	dataRoot := filepath.Join(r.root, DataDir)
	if _, err := os.Stat(dataRoot); err != nil {
		if !os.IsNotExist(err) {
			logDegraded(r.id, "list_data_files", DataDir, err)
		}
		return nil
	}

	var files []DataFile
	err := filepath.WalkDir(dataRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dataRoot, p)
		if err != nil {
			return err
		}
		files = append(files, DataFile{Path: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		logDegraded(r.id, "list_data_files", DataDir, err)
		return nil
	}
	return files
}

// GetFile reads a file. Directories and missing files are absent.
func (r *DirectoryRepository) GetFile(_ context.Context, p string) ([]byte, bool) {
	full, err := r.resolve(p)
	if err != nil {
		logDegraded(r.id, "get_file", p, err)
		return nil, false
	}
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	data, err := os.ReadFile(full)
	if err != nil {
		logDegraded(r.id, "get_file", path.Clean(p), err)
		return nil, false
	}
	return data, true
}

// PopularitySignal is unknown for local mods.
func (r *DirectoryRepository) PopularitySignal(context.Context) int { return UnknownPopularity }

var (
	_ Source     = (*DirectorySource)(nil)
	_ Repository = (*DirectoryRepository)(nil)
)
