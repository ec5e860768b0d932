package utils

import (
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestWriter(t *testing.T) {
	content := []byte("hello modpack")

	w := NewDigestWriter()
	n, err := w.Write(content)
	require.NoError(t, err)
	assert.Equal(t, len(content), n)

	sum1 := sha1.Sum(content)
	sum512 := sha512.Sum512(content)

	d := w.Sum()
	assert.Equal(t, hex.EncodeToString(sum1[:]), d.SHA1)
	assert.Equal(t, hex.EncodeToString(sum512[:]), d.SHA512)
	assert.Equal(t, int64(len(content)), d.Size)
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.jar")
	content := []byte("jar bytes")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	d, err := HashFile(path)
	require.NoError(t, err)

	sum1 := sha1.Sum(content)
	assert.Equal(t, hex.EncodeToString(sum1[:]), d.SHA1)
	assert.Equal(t, int64(len(content)), d.Size)

	_, err = HashFile(filepath.Join(dir, "missing.jar"))
	assert.Error(t, err)
}

func TestFileNameFromURL(t *testing.T) {
	assert.Equal(t, "sodium-0.5.8.jar",
		FileNameFromURL("https://cdn.modrinth.com/data/AANobbMI/versions/abc/sodium-0.5.8.jar"))
	assert.Equal(t, "Some Mod.jar",
		FileNameFromURL("https://cdn.example.com/files/Some%20Mod.jar"))
}

func TestRelativePath(t *testing.T) {
	assert.Equal(t, "mods/a.jar", RelativePath(filepath.Join("current", "mods", "a.jar"), "current"))
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "mods"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "mods", "a.jar"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.json"), []byte("{}"), 0o644))

	dst := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, CopyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "mods", "a.jar"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	_, err = os.Stat(filepath.Join(dst, "index.json"))
	assert.NoError(t, err)
}
