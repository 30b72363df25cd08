package forge

import (
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
	"gitlab.com/nextmod/nextmod/internal/logfields"
)

// newHTTPClient30s returns an HTTP client with a 30s timeout.
func newHTTPClient30s() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// cleanRepoPath normalizes a repository-relative path. It reports false for
// paths that climb out of the repository.
func cleanRepoPath(p string) (string, bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(strings.TrimLeft(p, "/"))
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	if p == "." {
		return "", true
	}
	return p, true
}

// escapeSegments escapes each element of a slash path for use in a URL path.
func escapeSegments(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// logDegraded records a backend failure that was turned into an empty or
// absent result. Missing resources are expected and only logged at debug.
func logDegraded(repoID, op, target string, err error) {
	attrs := []any{logfields.Mod(repoID), slog.String("op", op), logfields.Path(target), logfields.Error(err)}
	if errors.IsNotFound(err) {
		slog.Debug("Resource not found", attrs...)
		return
	}
	slog.Warn("Backend request failed, continuing without result", attrs...)
}
