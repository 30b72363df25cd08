package git

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// authFor returns token authentication for HTTPS remotes, or nil for anonymous access.
func authFor(token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	// Most Git hosting services accept any username alongside a token.
	return &http.BasicAuth{Username: "token", Password: token}
}
