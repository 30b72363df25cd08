package git

import (
	"strings"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// classify maps go-git failures onto error categories without retrying.
func classify(op string, remote config.RemoteConfig, err error) error {
	l := strings.ToLower(err.Error())
	var b *errors.ErrorBuilder
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password"):
		b = errors.AuthError("git authentication failed")
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist") || strings.Contains(l, "couldn't find remote ref"):
		b = errors.NotFoundError("git repository or branch not found").WithSeverity(errors.SeverityError)
	case strings.Contains(l, "timeout") || strings.Contains(l, "connection refused") || strings.Contains(l, "no such host"):
		b = errors.NetworkError("git remote unreachable")
	default:
		b = errors.GitError("git " + op + " failed")
	}
	return b.WithCause(err).
		WithContext("op", op).
		WithContext("url", remote.URL).
		WithContext("branch", remote.Branch).
		Build()
}
