package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Download(t *testing.T) {
	content := []byte("mod jar content")
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(content)
	}))
	defer srv.Close()

	dir := t.TempDir()
	var lastWritten int64
	f := NewHTTPFetcher(Config{}, func(written, total int64) {
		lastWritten = written
	})

	res, err := f.Fetch(context.Background(), srv.URL+"/files/test-mod.jar", dir, 0)
	require.NoError(t, err)

	assert.True(t, res.Transferred)
	assert.Equal(t, filepath.Join(dir, "test-mod.jar"), res.Path)
	assert.Equal(t, int64(len(content)), res.Digests.Size)
	assert.Equal(t, int64(len(content)), lastWritten)

	sum := sha1.Sum(content)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.Digests.SHA1)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, 1, hits)
}

func TestHTTPFetcher_ReusesExistingFile(t *testing.T) {
	content := []byte("already here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected when local file matches")
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cached.jar"), content, 0o644))

	f := NewHTTPFetcher(Config{}, nil)
	res, err := f.Fetch(context.Background(), srv.URL+"/cached.jar", dir, int64(len(content)))
	require.NoError(t, err)

	assert.False(t, res.Transferred)
	assert.Equal(t, int64(len(content)), res.Digests.Size)
	assert.NotEmpty(t, res.Digests.SHA512)
}

func TestHTTPFetcher_SizeMismatchRedownloads(t *testing.T) {
	content := []byte("fresh content")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.jar"), []byte("old"), 0o644))

	f := NewHTTPFetcher(Config{}, nil)
	res, err := f.Fetch(context.Background(), srv.URL+"/stale.jar", dir, int64(len(content)))
	require.NoError(t, err)

	assert.True(t, res.Transferred)
	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestHTTPFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Config{}, nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/gone.jar", t.TempDir(), 0)
	assert.Error(t, err)
}
