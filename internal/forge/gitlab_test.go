package forge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/nextmod/nextmod/internal/config"
)

// fakeGitLab serves the subset of the GitLab v4 API the source uses.
func fakeGitLab(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	jsonReply := func(v any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("page") != "" && r.URL.Query().Get("page") != "1" {
				_, _ = w.Write([]byte("[]"))
				return
			}
			assert.NoError(t, json.NewEncoder(w).Encode(v))
		}
	}

	mux.HandleFunc("GET /api/v4/groups/{group}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/v4/groups/nextmod%2Fmod" {
			http.NotFound(w, r)
			return
		}
		jsonReply(gitlabGroup{ID: 1, Path: "mod", FullPath: "nextmod/mod"})(w, r)
	})
	mux.HandleFunc("GET /api/v4/groups/1/subgroups", jsonReply([]gitlabGroup{
		{ID: 10, Path: "game-a", FullPath: "nextmod/mod/game-a"},
		{ID: 11, Path: "game-b", FullPath: "nextmod/mod/game-b"},
	}))
	mux.HandleFunc("GET /api/v4/groups/10/projects", jsonReply([]gitlabProject{
		{ID: 100, Name: "Red Castle", Path: "red-castle", StarCount: 5},
		{ID: 101, Name: "Blue Fort", Path: "blue-fort", StarCount: 0},
	}))
	mux.HandleFunc("GET /api/v4/groups/11/projects", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /api/v4/projects/100/repository/tree", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "master", q.Get("ref"))
		switch {
		case q.Get("path") == "image":
			jsonReply([]gitlabTreeEntry{{Name: "banner.png", Type: "blob", Path: "image/banner.png"}})(w, r)
		case q.Get("path") == "data" && q.Get("recursive") == "true":
			jsonReply([]gitlabTreeEntry{
				{Name: "maps", Type: "tree", Path: "data/maps"},
				{Name: "b.map", Type: "blob", Path: "data/maps/b.map"},
			})(w, r)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("HEAD /api/v4/projects/100/repository/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/v4/projects/100/repository/files/data%2Fmaps%2Fb.map" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Gitlab-Size", "2048")
	})
	mux.HandleFunc("GET /api/v4/projects/100/repository/files/{file}/raw", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("file") != "mod-info.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("# Name\nRed Castle\n"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGitLabSource(srv *httptest.Server) *GitLabSource {
	return NewGitLabSource(config.GitLabConfig{
		APIURL: srv.URL + "/api/v4",
		Group:  "nextmod/mod",
		Ref:    "master",
	}, Options{HTTPClient: srv.Client()})
}

func TestGitLabSource_ListMods(t *testing.T) {
	src := newTestGitLabSource(fakeGitLab(t))

	var ids []string
	for repo, err := range src.ListMods(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, repo.ID())
	}
	assert.Equal(t, []string{"red-castle", "blue-fort"}, ids, "failing subgroup is skipped")
}

func TestGitLabSource_MissingRootGroup(t *testing.T) {
	srv := fakeGitLab(t)
	src := NewGitLabSource(config.GitLabConfig{APIURL: srv.URL + "/api/v4", Group: "other", Ref: "master"}, Options{HTTPClient: srv.Client()})

	var errs int
	for _, err := range src.ListMods(context.Background()) {
		require.Error(t, err)
		errs++
	}
	assert.Equal(t, 1, errs)
}

func TestGitLabRepository(t *testing.T) {
	src := newTestGitLabSource(fakeGitLab(t))
	ctx := context.Background()

	var repo Repository
	for r, err := range src.ListMods(ctx) {
		require.NoError(t, err)
		repo = r
		break
	}
	require.NotNil(t, repo)

	assert.Equal(t, []string{"banner.png"}, slices.Collect(repo.ListDir(ctx, "image")))
	assert.Empty(t, slices.Collect(repo.ListDir(ctx, "page")))
	assert.Equal(t, []DataFile{{Path: "maps/b.map", Size: 2048}}, repo.ListDataFiles(ctx))

	data, ok := repo.GetFile(ctx, ModInfoFile)
	require.True(t, ok)
	assert.Equal(t, "# Name\nRed Castle\n", string(data))

	_, ok = repo.GetFile(ctx, TagsFile)
	assert.False(t, ok)

	assert.Equal(t, 5, repo.PopularitySignal(ctx))
}
