// Package output confines every write of a build to the output directory.
package output

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// Sandbox resolves logical paths against a fixed output root and refuses any
// path whose canonical form leaves it.
type Sandbox struct {
	root string
	info fs.FileInfo
}

// New opens the sandbox rooted at dir. The directory must already exist.
func New(dir string) (*Sandbox, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.FileSystemError("invalid output directory").
			WithCause(err).
			WithContext("path", dir).
			Fatal().
			Build()
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.FileSystemError("output directory does not exist").
			WithCause(err).
			WithContext("path", abs).
			Fatal().
			Build()
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.FileSystemError("output path is not a directory").
			WithCause(err).
			WithContext("path", root).
			Fatal().
			Build()
	}
	return &Sandbox{root: root, info: info}, nil
}

// Root returns the canonical output directory.
func (s *Sandbox) Root() string { return s.root }

// Resolve maps a logical path to its canonical filesystem path. Symlinks are
// followed for the part of the path that already exists.
func (s *Sandbox) Resolve(logical string) (string, error) {
	joined := filepath.Join(s.root, filepath.FromSlash(logical))
	resolved, err := resolveExisting(joined)
	if err != nil {
		return "", errors.FileSystemError("failed to resolve output path").
			WithCause(err).
			WithContext("path", logical).
			Build()
	}

	prefix := commonPrefix(s.root, resolved)
	info, err := os.Stat(prefix)
	if err != nil || !os.SameFile(s.info, info) {
		return "", errors.SecurityError("output path escapes the output directory").
			WithContext("path", logical).
			WithContext("resolved", resolved).
			WithContext("root", s.root).
			Build()
	}
	return resolved, nil
}

// CheckedOpen resolves logical, creates missing parent directories, and opens the file.
func (s *Sandbox) CheckedOpen(logical string, flag int) (*os.File, error) {
	path, err := s.Resolve(logical)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.FileSystemError("failed to create output directory").
			WithCause(err).
			WithContext("path", logical).
			Build()
	}
	// #nosec G304 -- path is confined to the output root by Resolve.
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, errors.FileSystemError("failed to open output file").
			WithCause(err).
			WithContext("path", logical).
			Build()
	}
	return f, nil
}

// WriteFile replaces the file at logical with data.
func (s *Sandbox) WriteFile(logical string, data []byte) error {
	f, err := s.CheckedOpen(logical, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.FileSystemError("failed to write output file").
			WithCause(err).
			WithContext("path", logical).
			Build()
	}
	if err := f.Close(); err != nil {
		return errors.FileSystemError("failed to close output file").
			WithCause(err).
			WithContext("path", logical).
			Build()
	}
	return nil
}

// resolveExisting canonicalizes the longest existing ancestor of p and
// reattaches the not-yet-created remainder.
func resolveExisting(p string) (string, error) {
	var rest []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Join(parts...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

// commonPrefix returns the longest shared leading run of path components.
func commonPrefix(a, b string) string {
	as := strings.Split(filepath.Clean(a), string(filepath.Separator))
	bs := strings.Split(filepath.Clean(b), string(filepath.Separator))
	n := 0
	for n < len(as) && n < len(bs) && as[n] == bs[n] {
		n++
	}
	if n == 0 {
		return string(filepath.Separator)
	}
	prefix := strings.Join(as[:n], string(filepath.Separator))
	if prefix == "" {
		return string(filepath.Separator)
	}
	return prefix
}
