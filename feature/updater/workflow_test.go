package updater

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modpack-manager/feature/catalog"
	"modpack-manager/feature/manifest"
	"modpack-manager/feature/versions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	return Config{
		WorkDir:      filepath.Join(root, "current"),
		ModsDir:      "mods",
		BackupsDir:   filepath.Join(root, "backups"),
		OverridesDir: filepath.Join(root, "overrides"),
		LogsDir:      filepath.Join(root, "logs"),
		OutputDir:    filepath.Join(root, "out"),
	}
}

// seedWorkTree persists the manifest into the working tree so a run starts
// from the same on-disk shape a real pack has.
func seedWorkTree(t *testing.T, cfg Config, m *manifest.Manifest) {
	t.Helper()
	require.NoError(t, os.MkdirAll(cfg.WorkDir, 0o755))
	require.NoError(t, m.Save(cfg.ManifestPath()))
}

func TestWorkflow_VersionUnchangedAborts(t *testing.T) {
	cfg := testConfig(t)
	m := packWithEntry("P1")
	w := NewWorkflow(cfg, m, openStore(t), &fakeCatalog{}, &fakeFetcher{}, zap.NewNop())

	_, err := w.RunUpdate(context.Background(), Params{NewVersion: m.VersionID})
	require.ErrorIs(t, err, ErrVersionUnchanged)
	assert.Equal(t, StateAborted, w.State())

	_, statErr := os.Stat(cfg.BackupsDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWorkflow_EmptyVersionAborts(t *testing.T) {
	cfg := testConfig(t)
	w := NewWorkflow(cfg, packWithEntry("P1"), openStore(t), &fakeCatalog{}, &fakeFetcher{}, zap.NewNop())

	_, err := w.RunUpdate(context.Background(), Params{NewVersion: ""})
	require.ErrorIs(t, err, ErrVersionUnchanged)
	assert.Equal(t, StateAborted, w.State())
}

func TestWorkflow_OverridesDeclineAborts(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OverridesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OverridesDir, "config.toml"), []byte("x"), 0o644))

	m := packWithEntry("P1")
	seedWorkTree(t, cfg, m)
	before, err := os.ReadFile(cfg.ManifestPath())
	require.NoError(t, err)

	w := NewWorkflow(cfg, m, openStore(t), &fakeCatalog{}, &fakeFetcher{}, zap.NewNop())
	_, err = w.RunUpdate(context.Background(), Params{NewVersion: "2.0.0", Confirmed: false})
	require.ErrorIs(t, err, ErrUserCancelled)
	assert.Equal(t, StateAborted, w.State())

	// Nothing happened: no backup, index untouched.
	_, statErr := os.Stat(cfg.BackupsDir)
	assert.True(t, os.IsNotExist(statErr))
	after, err := os.ReadFile(cfg.ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWorkflow_BackupFailureAborts(t *testing.T) {
	cfg := testConfig(t)
	m := packWithEntry("P1")
	seedWorkTree(t, cfg, m)

	// A regular file where the backups directory should go.
	require.NoError(t, os.WriteFile(cfg.BackupsDir, []byte("in the way"), 0o644))

	w := NewWorkflow(cfg, m, openStore(t), &fakeCatalog{}, &fakeFetcher{}, zap.NewNop())
	_, err := w.RunUpdate(context.Background(), Params{NewVersion: "2.0.0"})

	var backupErr *BackupError
	require.ErrorAs(t, err, &backupErr)
	assert.Equal(t, StateAborted, w.State())
}

func TestWorkflow_DryRun(t *testing.T) {
	cfg := testConfig(t)
	store := openStore(t)
	require.NoError(t, store.Upsert(&versions.Record{ProjectID: "P1", VersionNumber: "1.0", SHA1: "old1"}))

	m := packWithEntry("P1")
	seedWorkTree(t, cfg, m)
	before, err := os.ReadFile(cfg.ManifestPath())
	require.NoError(t, err)

	cat := &fakeCatalog{releases: map[string]*catalog.Release{"P1": release("P1", "1.1", "p1-1.1.jar", 5)}}
	fetcher := &fakeFetcher{}
	w := NewWorkflow(cfg, m, store, cat, fetcher, zap.NewNop())

	report, err := w.RunUpdate(context.Background(), Params{NewVersion: "2.0.0", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StateDone, w.State())

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, OutcomeUpdateNeeded, report.Outcomes[0].Kind)
	assert.Equal(t, 0, fetcher.count())

	// Zero mutation: index bytes identical, no backup, no archive, no log.
	after, err := os.ReadFile(cfg.ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "1.0.0", m.VersionID)
	for _, dir := range []string{cfg.BackupsDir, cfg.OutputDir, cfg.LogsDir} {
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr), dir)
	}
}

func TestWorkflow_UpdateFullRun(t *testing.T) {
	cfg := testConfig(t)
	store := openStore(t)
	require.NoError(t, store.Upsert(&versions.Record{ProjectID: "P1", VersionNumber: "1.0", SHA1: "old1"}))

	require.NoError(t, os.MkdirAll(cfg.OverridesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OverridesDir, "config.toml"), []byte("keep = true"), 0o644))

	m := packWithEntry("P1")
	seedWorkTree(t, cfg, m)

	rel := release("P1", "1.1", "p1-1.1.jar", 6)
	cat := &fakeCatalog{releases: map[string]*catalog.Release{"P1": rel}}
	fetcher := &fakeFetcher{content: map[string][]byte{rel.Files[0].URL: []byte("v1.1!!")}}

	w := NewWorkflow(cfg, m, store, cat, fetcher, zap.NewNop())
	report, err := w.RunUpdate(context.Background(), Params{NewVersion: "2.0.0", Summary: "august drop", Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, StateDone, w.State())
	assert.Equal(t, 1, report.Summary.Updated)
	assert.Equal(t, 1, report.Transfers)

	// Backup of the pre-run tree exists.
	backups, err := os.ReadDir(cfg.BackupsDir)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.True(t, strings.HasPrefix(backups[0].Name(), "backup_"))

	// Index persisted with the new stamp.
	persisted, err := manifest.Load(cfg.ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", persisted.VersionID)
	assert.Equal(t, "august drop", persisted.Summary)
	assert.Equal(t, "mods/p1-1.1.jar", persisted.Files[0].Path)

	// Cache committed after the index.
	rec, err := store.Get("P1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "1.1", rec.VersionNumber)
	assert.Equal(t, persisted.Files[0].Hashes.SHA1, rec.SHA1)

	// Update log mentions the mod that moved.
	logs, err := os.ReadDir(cfg.LogsDir)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	logBody, err := os.ReadFile(filepath.Join(cfg.LogsDir, logs[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(logBody), "p1-1.1.jar")

	// Archive holds the index at the root and the override under prefix.
	zr, err := zip.OpenReader(filepath.Join(cfg.OutputDir, "2.0.0.mrpack"))
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{manifest.IndexFileName, "overrides/config.toml"}, names)
}

func TestWorkflow_PersistFailureLeavesCacheUntouched(t *testing.T) {
	// A failed index persist must not advance the cache: a later run from
	// the still-old index has to see the old cached version and update
	// again.
	cfg := testConfig(t)
	store := openStore(t)
	require.NoError(t, store.Upsert(&versions.Record{ProjectID: "P1", VersionNumber: "1.0", SHA1: "old1"}))

	// A directory squatting on the index path makes the atomic rename fail.
	require.NoError(t, os.MkdirAll(cfg.ManifestPath(), 0o755))

	rel := release("P1", "1.1", "p1-1.1.jar", 6)
	cat := &fakeCatalog{releases: map[string]*catalog.Release{"P1": rel}}
	fetcher := &fakeFetcher{content: map[string][]byte{rel.Files[0].URL: []byte("v1.1!!")}}

	m := packWithEntry("P1")
	w := NewWorkflow(cfg, m, store, cat, fetcher, zap.NewNop())
	_, err := w.RunUpdate(context.Background(), Params{NewVersion: "2.0.0"})

	var persistErr *PersistError
	require.ErrorAs(t, err, &persistErr)

	rec, err := store.Get("P1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "1.0", rec.VersionNumber)
	assert.Equal(t, "old1", rec.SHA1)
}

func TestWorkflow_BuildSkipsCatalog(t *testing.T) {
	cfg := testConfig(t)
	m := packWithEntry("P1")
	seedWorkTree(t, cfg, m)

	cat := &fakeCatalog{}
	w := NewWorkflow(cfg, m, openStore(t), cat, &fakeFetcher{}, zap.NewNop())

	report, err := w.RunBuild(context.Background(), Params{NewVersion: "1.0.1", Summary: "rebuild"})
	require.NoError(t, err)
	assert.Equal(t, StateDone, w.State())
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 0, cat.calls)

	persisted, err := manifest.Load(cfg.ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", persisted.VersionID)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "1.0.1.mrpack"))
	assert.NoError(t, err)
}
