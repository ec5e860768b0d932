package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *Manifest {
	return &Manifest{
		Game:          "minecraft",
		FormatVersion: 1,
		VersionID:     "1.0.0",
		Name:          "Test Pack",
		Summary:       "A test pack",
		Dependencies: map[string]string{
			"minecraft": "1.20.1",
			"forge":     "47.2.0",
		},
		Files: []*Entry{
			{
				Path:   "mods/sodium.jar",
				Hashes: Hashes{SHA1: "aa", SHA512: "bb"},
				Env:    &Env{Server: "required", Client: "required"},
				Downloads: []string{
					"https://cdn.modrinth.com/data/AANobbMI/versions/xyz/sodium.jar",
				},
				FileSize: 1234,
			},
		},
	}
}

func TestProjectID(t *testing.T) {
	m := sampleManifest()
	id, err := m.Files[0].ProjectID()
	require.NoError(t, err)
	assert.Equal(t, "AANobbMI", id)
}

func TestProjectID_Malformed(t *testing.T) {
	cases := []*Entry{
		{},
		{Downloads: []string{"not-a-url"}},
		{Downloads: []string{"https://cdn.modrinth.com/data"}},
	}
	for _, e := range cases {
		_, err := e.ProjectID()
		assert.ErrorIs(t, err, ErrMalformedEntry)
	}
}

func TestLoaderDetection(t *testing.T) {
	m := sampleManifest()

	gv, ok := m.GameVersion()
	require.True(t, ok)
	assert.Equal(t, "1.20.1", gv)

	name, version, ok := m.Loader()
	require.True(t, ok)
	assert.Equal(t, "forge", name)
	assert.Equal(t, "47.2.0", version)

	m.SetLoader("fabric", "0.15.0")
	name, version, ok = m.Loader()
	require.True(t, ok)
	assert.Equal(t, "fabric", name)
	assert.Equal(t, "0.15.0", version)
	_, hasForge := m.Dependencies["forge"]
	assert.False(t, hasForge)
}

func TestRemoveByProject(t *testing.T) {
	m := sampleManifest()
	m.AddEntry(&Entry{
		Path:      "mods/lithium.jar",
		Downloads: []string{"https://cdn.modrinth.com/data/gvQqBUqZ/versions/v/lithium.jar"},
	})

	assert.Equal(t, 0, m.RemoveByProject("unknown"))
	assert.Len(t, m.Files, 2)

	assert.Equal(t, 1, m.RemoveByProject("AANobbMI"))
	assert.Len(t, m.Files, 1)
	assert.Equal(t, "mods/lithium.jar", m.Files[0].Path)
}

func TestValidate_DuplicatePaths(t *testing.T) {
	m := sampleManifest()
	assert.NoError(t, m.Validate())

	m.AddEntry(&Entry{Path: "mods/sodium.jar"})
	assert.Error(t, m.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, IndexFileName)

	m := sampleManifest()
	require.NoError(t, m.Save(path))

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Save(path))

	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestUnknownFieldsPreserved(t *testing.T) {
	raw := `{
    "game": "minecraft",
    "formatVersion": 1,
    "versionId": "2.0.0",
    "name": "Pack",
    "summary": "s",
    "dependencies": {"minecraft": "1.20.1", "forge": "47.2.0"},
    "files": [
        {
            "path": "mods/a.jar",
            "hashes": {"sha1": "x", "sha512": "y"},
            "downloads": ["https://cdn.modrinth.com/data/P1/versions/v/a.jar"],
            "fileSize": 10,
            "customMarker": {"nested": true}
        }
    ],
    "launcherHint": "keep-me"
}`
	dir := t.TempDir()
	path := filepath.Join(dir, IndexFileName)
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, m.Save(path))

	persisted, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(persisted), `"launcherHint": "keep-me"`)
	assert.Contains(t, string(persisted), `"customMarker"`)

	// Canonical form is stable from the first persist on.
	again, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, again.Save(path))
	repersisted, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(persisted), string(repersisted))
}

func TestSave_NeverLeavesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, IndexFileName)
	require.NoError(t, sampleManifest().Save(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, IndexFileName, entries[0].Name())
}
