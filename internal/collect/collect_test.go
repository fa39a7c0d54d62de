package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"readmekit/internal/config"
	"readmekit/internal/dataset"
	"readmekit/internal/github"
	"readmekit/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goodReadme clears the quality gate: enough length, words, and
// headings without tripping the upper bound.
var goodReadme = "# Demo\n\n## Install\n\n" + strings.Repeat("word ", 60)

func treeJSON(paths ...string) string {
	type item struct {
		Path string `json:"path"`
		Type string `json:"type"`
	}
	items := make([]item, 0, len(paths))
	for _, p := range paths {
		items = append(items, item{Path: p, Type: "blob"})
	}
	data, _ := json.Marshal(map[string]any{"tree": items})
	return string(data)
}

func newCollectServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"items": []}`)
			return
		}
		fmt.Fprint(w, `{"items": [
			{"name": "good", "full_name": "octo/good", "owner": {"login": "octo"}, "stargazers_count": 42, "language": "Python"},
			{"name": "thin", "full_name": "octo/thin", "owner": {"login": "octo"}, "stargazers_count": 7, "language": "Python"}
		]}`)
	})

	mux.HandleFunc("/repos/octo/good/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, treeJSON("README.md", "main.py"))
	})
	mux.HandleFunc("/octo/good/HEAD/README.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, goodReadme)
	})
	mux.HandleFunc("/octo/good/HEAD/main.py", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "print('hello')\n")
	})

	mux.HandleFunc("/repos/octo/thin/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, treeJSON("README.md", "main.py"))
	})
	mux.HandleFunc("/octo/thin/HEAD/README.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "# thin")
	})
	mux.HandleFunc("/octo/thin/HEAD/main.py", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pass\n")
	})

	mux.HandleFunc("/repos/octo/bare/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, treeJSON("main.py"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testCollector(srv *httptest.Server) *Collector {
	cfg := &config.Config{}
	cfg.Collect.Languages = []string{"Python"}
	cfg.Collect.MinStars = 10
	cfg.Collect.MaxStars = 5000
	return NewCollector(github.NewClientWithBase("", srv.URL, srv.URL), cfg)
}

func searchRepo(name, fullName, owner string) github.Repo {
	var r github.Repo
	r.Name = name
	r.FullName = fullName
	r.Owner.Login = owner
	return r
}

func TestProcessRepo(t *testing.T) {
	srv := newCollectServer(t)
	c := testCollector(srv)
	ctx := context.Background()

	t.Run("Accepted repository", func(t *testing.T) {
		repo := searchRepo("good", "octo/good", "octo")
		repo.Stars = 42
		repo.Language = "Python"

		ex, ok := c.processRepo(ctx, repo)
		require.True(t, ok)
		assert.Equal(t, "octo/good", ex.RepoName)
		assert.Equal(t, 42, ex.Stars)
		assert.Equal(t, "Python", ex.Language)
		assert.Contains(t, ex.FileTree, "main.py")
		assert.Contains(t, ex.CodeSnippets, "--- main.py ---")
		assert.Contains(t, ex.ReadmeContent, "## Install")
	})

	t.Run("README below quality gate", func(t *testing.T) {
		_, ok := c.processRepo(ctx, searchRepo("thin", "octo/thin", "octo"))
		assert.False(t, ok)
	})

	t.Run("No README at all", func(t *testing.T) {
		_, ok := c.processRepo(ctx, searchRepo("bare", "octo/bare", "octo"))
		assert.False(t, ok)
	})

	t.Run("Missing language falls back to unknown", func(t *testing.T) {
		ex, ok := c.processRepo(ctx, searchRepo("good", "octo/good", "octo"))
		require.True(t, ok)
		assert.Equal(t, "unknown", ex.Language)
	})
}

func TestRun_EndToEnd(t *testing.T) {
	srv := newCollectServer(t)
	c := testCollector(srv)
	outDir := t.TempDir()

	err := c.Run(context.Background(), Options{NumRepos: 1, OutputDir: outDir})
	require.NoError(t, err)

	examples, err := dataset.ReadAll(filepath.Join(outDir, dataset.FileName))
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "octo/good", examples[0].RepoName)

	t.Run("Stats artifact", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(outDir, StatsFileName))
		require.NoError(t, err)

		var stats dataset.Stats
		require.NoError(t, json.Unmarshal(data, &stats))
		assert.Equal(t, 1, stats.TotalExamples)
		assert.Equal(t, 1, stats.ByLanguage["Python"])
	})

	t.Run("Ledger records the processed repo", func(t *testing.T) {
		ledger, err := storage.OpenLedger(filepath.Join(outDir, LedgerFileName))
		require.NoError(t, err)
		defer ledger.Close()

		seen, err := ledger.Seen(context.Background(), "octo/good")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("Second run skips ledger entries", func(t *testing.T) {
		err := c.Run(context.Background(), Options{NumRepos: 2, OutputDir: outDir})
		require.NoError(t, err)

		examples, err := dataset.ReadAll(filepath.Join(outDir, dataset.FileName))
		require.NoError(t, err)
		require.Len(t, examples, 1)
	})
}

// newResumeServer serves two acceptable repositories and honors the
// per_page search parameter, so a small first run sees only the first.
func newResumeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"items": []}`)
			return
		}
		items := []string{
			`{"name": "one", "full_name": "octo/one", "owner": {"login": "octo"}, "stargazers_count": 11, "language": "Python"}`,
			`{"name": "two", "full_name": "octo/two", "owner": {"login": "octo"}, "stargazers_count": 12, "language": "Go"}`,
		}
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		if perPage > 0 && perPage < len(items) {
			items = items[:perPage]
		}
		fmt.Fprint(w, `{"items": [`+strings.Join(items, ",")+`]}`)
	})

	for _, repo := range []string{"one", "two"} {
		mux.HandleFunc("/repos/octo/"+repo+"/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, treeJSON("README.md", "main.py"))
		})
		mux.HandleFunc("/octo/"+repo+"/HEAD/README.md", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, goodReadme)
		})
		mux.HandleFunc("/octo/"+repo+"/HEAD/main.py", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "print('hello')\n")
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_ResumedRunExtendsStats(t *testing.T) {
	srv := newResumeServer(t)
	c := testCollector(srv)
	outDir := t.TempDir()

	// First run collects octo/one, the resumed run adds octo/two to the
	// same dataset file.
	require.NoError(t, c.Run(context.Background(), Options{NumRepos: 1, OutputDir: outDir}))
	require.NoError(t, c.Run(context.Background(), Options{NumRepos: 2, OutputDir: outDir}))

	examples, err := dataset.ReadAll(filepath.Join(outDir, dataset.FileName))
	require.NoError(t, err)
	require.Len(t, examples, 2)

	data, err := os.ReadFile(filepath.Join(outDir, StatsFileName))
	require.NoError(t, err)

	var stats dataset.Stats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, len(examples), stats.TotalExamples)
	assert.Equal(t, 1, stats.ByLanguage["Python"])
	assert.Equal(t, 1, stats.ByLanguage["Go"])
}
