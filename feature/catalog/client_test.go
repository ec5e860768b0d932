package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestRelease_PicksFirstCompatible(t *testing.T) {
	releases := []Release{
		{
			VersionNumber: "2.0",
			Loaders:       []string{"fabric"},
			GameVersions:  []string{"1.20.1"},
		},
		{
			VersionNumber: "1.9",
			Loaders:       []string{"forge", "fabric"},
			GameVersions:  []string{"1.20.1"},
			Files: []ReleaseFile{
				{URL: "https://cdn.example.com/data/P1/versions/v/a.jar", Filename: "a.jar", Primary: true, Size: 10},
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/project/P1/version", r.URL.Path)
		assert.Equal(t, `["forge"]`, r.URL.Query().Get("loaders"))
		assert.Equal(t, `["1.20.1"]`, r.URL.Query().Get("game_versions"))
		json.NewEncoder(w).Encode(releases)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	rel, err := c.LatestRelease(context.Background(), "P1", "1.20.1", "forge")
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, "1.9", rel.VersionNumber)
}

func TestLatestRelease_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Release{})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	rel, err := c.LatestRelease(context.Background(), "P1", "1.20.1", "forge")
	require.NoError(t, err)
	assert.Nil(t, rel)
}

func TestLatestRelease_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	_, err := c.LatestRelease(context.Background(), "P1", "1.20.1", "forge")
	assert.Error(t, err)
}

func TestReleaseByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(Release{ID: "abc123", VersionNumber: "3.1"})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	rel, err := c.ReleaseByID(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, rel)
	assert.Equal(t, "3.1", rel.VersionNumber)
}

func TestPrimaryFile(t *testing.T) {
	r := &Release{Files: []ReleaseFile{
		{Filename: "sources.jar"},
		{Filename: "mod.jar", Primary: true},
	}}
	require.NotNil(t, r.PrimaryFile())
	assert.Equal(t, "mod.jar", r.PrimaryFile().Filename)

	// No primary flag: first file wins.
	r = &Release{Files: []ReleaseFile{{Filename: "only.jar"}}}
	assert.Equal(t, "only.jar", r.PrimaryFile().Filename)

	// No files at all.
	assert.Nil(t, (&Release{}).PrimaryFile())
}
