package githubx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		url     string
		want    Repo
		wantErr bool
	}{
		{url: "https://github.com/octo/hello", want: Repo{"octo", "hello"}},
		{url: "https://github.com/octo/hello.git", want: Repo{"octo", "hello"}},
		{url: "https://github.com/octo/hello/", want: Repo{"octo", "hello"}},
		{url: "  https://GitHub.com/octo/hello  ", want: Repo{"octo", "hello"}},
		{url: "http://github.com/octo/hello", wantErr: true},
		{url: "https://gitlab.com/octo/hello", wantErr: true},
		{url: "https://github.com/octo", wantErr: true},
		{url: "https://github.com/octo/hello/tree/main", wantErr: true},
		{url: "not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRepoURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Owner+"/"+tt.want.Name, got.String())
		})
	}
}

func newFakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"hello","owner":{"login":"octo"},"private":false,"default_branch":"main","language":"Go","size":42}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestChecker_Check(t *testing.T) {
	srv := newFakeGitHub(t)
	c, err := NewChecker("gh-token", WithBaseURL(srv.URL))
	require.NoError(t, err)

	info, err := c.Check(context.Background(), "https://github.com/octo/hello.git")
	require.NoError(t, err)
	assert.Equal(t, &RepoInfo{
		Repo:          Repo{"octo", "hello"},
		DefaultBranch: "main",
		Language:      "Go",
		SizeKB:        42,
	}, info)
}

func TestChecker_CheckMissingRepo(t *testing.T) {
	srv := newFakeGitHub(t)
	c, err := NewChecker("gh-token", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Check(context.Background(), "https://github.com/octo/ghost")
	assert.ErrorIs(t, err, ErrRepoNotFound)
}

func TestChecker_CheckInvalidURLSkipsAPI(t *testing.T) {
	c, err := NewChecker("", WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)

	_, err = c.Check(context.Background(), "ftp://github.com/octo/hello")
	assert.ErrorIs(t, err, ErrInvalidRepoURL)
}
