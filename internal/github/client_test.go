package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"readmekit/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "429" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"name":             "demo",
					"full_name":        "octo/demo",
					"owner":            map[string]any{"login": "octo"},
					"stargazers_count": 42,
					"language":         "Python",
				},
			},
		})
	})

	mux.HandleFunc("/repos/octo/demo/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"tree": []map[string]any{
				{"path": "src", "type": "tree"},
				{"path": "src/main.py", "type": "blob"},
				{"path": "README.md", "type": "blob"},
				{"path": ".github/workflows/ci.yml", "type": "blob"},
				{"path": "node_modules/pkg/index.js", "type": "blob"},
				{"path": "demo.egg-info/PKG-INFO", "type": "blob"},
				{"path": "weird", "type": "commit"},
			},
		})
	})

	mux.HandleFunc("/octo/demo/HEAD/README.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "# Demo readme")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewClientWithBase("", srv.URL, srv.URL)
}

func TestClient_SearchRepos(t *testing.T) {
	_, client := newTestServer(t)

	repos, err := client.SearchRepos(context.Background(), "language:Python", 100, 1)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "octo/demo", repos[0].FullName)
	assert.Equal(t, "octo", repos[0].Owner.Login)
	assert.Equal(t, 42, repos[0].Stars)
}

func TestClient_RateLimitDetection(t *testing.T) {
	_, client := newTestServer(t)

	_, err := client.SearchRepos(context.Background(), "language:Go", 100, 429)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestNewRemoteSource_Filtering(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	t.Run("Default excludes", func(t *testing.T) {
		src, err := NewRemoteSource(ctx, client, "octo", "demo")
		require.NoError(t, err)

		paths := make([]string, 0, len(src.Entries()))
		for _, e := range src.Entries() {
			paths = append(paths, e.Path)
		}
		assert.Equal(t, []string{"README.md", "demo.egg-info/PKG-INFO", "src", "src/main.py"}, paths)
		assert.Equal(t, "octo/demo", src.Name())
	})

	t.Run("Extra exclude for the collection path", func(t *testing.T) {
		src, err := NewRemoteSource(ctx, client, "octo", "demo", ".egg-info")
		require.NoError(t, err)

		for _, e := range src.Entries() {
			assert.NotContains(t, e.Path, ".egg-info")
		}
	})

	t.Run("Directory entries keep their kind", func(t *testing.T) {
		src, err := NewRemoteSource(ctx, client, "octo", "demo")
		require.NoError(t, err)

		kinds := map[string]source.EntryKind{}
		for _, e := range src.Entries() {
			kinds[e.Path] = e.Kind
		}
		assert.Equal(t, source.KindDir, kinds["src"])
		assert.Equal(t, source.KindFile, kinds["src/main.py"])
	})
}

func TestRemoteSource_ReadFile(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	src, err := NewRemoteSource(ctx, client, "octo", "demo")
	require.NoError(t, err)

	t.Run("Existing file", func(t *testing.T) {
		content, err := src.ReadFile(ctx, "README.md")
		require.NoError(t, err)
		assert.Equal(t, "# Demo readme", content)
	})

	t.Run("Missing file is a status error", func(t *testing.T) {
		_, err := src.ReadFile(ctx, "src/main.py")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.Status)
	})
}

func TestNewRemoteSource_TreeFetchFailure(t *testing.T) {
	_, client := newTestServer(t)

	_, err := NewRemoteSource(context.Background(), client, "octo", "missing")
	require.Error(t, err)
	var se *StatusError
	assert.ErrorAs(t, err, &se)
}
