package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/nextmod/nextmod/internal/config"
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// seedRemote creates a bare repository plus a working clone that pushes into it.
func seedRemote(t *testing.T) (bare string, seed *git.Repository, seedPath string) {
	t.Helper()
	tmp := t.TempDir()
	bare = filepath.Join(tmp, "remote.git")
	_, err := git.PlainInit(bare, true)
	require.NoError(t, err)

	seedPath = filepath.Join(tmp, "seed")
	seed, err = git.PlainInit(seedPath, false)
	require.NoError(t, err)
	_, err = seed.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{bare}})
	require.NoError(t, err)
	return bare, seed, seedPath
}

func commitAndPush(t *testing.T, repo *git.Repository, repoPath, name, content string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(repoPath, name)), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0o600))
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
	require.NoError(t, repo.Push(&git.PushOptions{RemoteName: "origin"}))
}

func TestSyncClonesThenUpdates(t *testing.T) {
	bare, seed, seedPath := seedRemote(t)
	commitAndPush(t, seed, seedPath, "mod-info.md", "# Name\nRed Castle\n")

	client := NewClient(t.TempDir())
	remote := config.RemoteConfig{URL: bare, Name: "red-castle", Branch: "master"}

	dir, err := client.Sync(context.Background(), remote)
	require.NoError(t, err)
	assert.Equal(t, client.PathFor(remote), dir)
	data, err := os.ReadFile(filepath.Join(dir, "mod-info.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Name\nRed Castle\n", string(data))

	commitAndPush(t, seed, seedPath, "tags.md", "* Castle\n")
	_, err = client.Sync(context.Background(), remote)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "tags.md"))
}

func TestSyncDiscardsLocalEdits(t *testing.T) {
	bare, seed, seedPath := seedRemote(t)
	commitAndPush(t, seed, seedPath, "mod-info.md", "# Name\nBlue Fort\n")

	client := NewClient(t.TempDir())
	remote := config.RemoteConfig{URL: bare, Name: "blue-fort", Branch: "master"}
	dir, err := client.Sync(context.Background(), remote)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "mod-info.md"), []byte("edited"), 0o600))
	_, err = client.Sync(context.Background(), remote)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "mod-info.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Name\nBlue Fort\n", string(data))
}

func TestSyncMissingRemoteIsClassified(t *testing.T) {
	client := NewClient(t.TempDir())
	remote := config.RemoteConfig{URL: filepath.Join(t.TempDir(), "missing.git"), Name: "missing", Branch: "master"}

	_, err := client.Sync(context.Background(), remote)
	require.Error(t, err)
	assert.True(t, errors.IsClassified(err))
	assert.False(t, errors.IsFatal(err))
}

func TestAuthFor(t *testing.T) {
	assert.Nil(t, authFor(""))
	assert.NotNil(t, authFor("secret"))
}
