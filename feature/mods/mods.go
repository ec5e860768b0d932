package mods

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"modpack-manager/core/fetch"
	"modpack-manager/core/utils"
	"modpack-manager/feature/catalog"
	"modpack-manager/feature/manifest"
	"modpack-manager/feature/versions"

	"go.uber.org/zap"
)

// ErrReleaseNotFound is returned when the catalog cannot resolve the
// requested release ID.
var ErrReleaseNotFound = errors.New("release not found")

// Service applies single-mod operations to a manifest: add by release ID,
// list, remove by project ID. It mutates the manifest in memory; persisting
// the result stays with the caller.
type Service struct {
	store   *versions.Store
	catalog catalog.Client
	fetcher fetch.Fetcher
	log     *zap.Logger

	workDir string
	modsDir string
}

// NewService creates a mod operations service.
func NewService(store *versions.Store, cat catalog.Client, fetcher fetch.Fetcher, workDir, modsDir string, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		catalog: cat,
		fetcher: fetcher,
		log:     log,
		workDir: workDir,
		modsDir: modsDir,
	}
}

// Add resolves a release by its version ID, fetches its primary file into
// the mods directory and appends a fully stamped entry to the manifest. The
// version cache is updated alongside so the next reconciliation sees the
// mod as synced.
func (s *Service) Add(ctx context.Context, m *manifest.Manifest, versionID, serverEnv, clientEnv string) (*manifest.Entry, error) {
	release, err := s.catalog.ReleaseByID(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve release %s: %w", versionID, err)
	}
	if release == nil {
		return nil, fmt.Errorf("%w: %s", ErrReleaseNotFound, versionID)
	}

	primary := release.PrimaryFile()
	if primary == nil {
		return nil, fmt.Errorf("release %s has no files", versionID)
	}

	// Reject a colliding path before anything is fetched, so a failed add
	// leaves neither the manifest nor the mods directory touched.
	relPath := utils.RelativePath(filepath.Join(s.modsDir, utils.FileNameFromURL(primary.URL)), s.workDir)
	for _, e := range m.Files {
		if e.Path == relPath {
			return nil, fmt.Errorf("cannot add %s: duplicate entry path: %s", primary.Filename, relPath)
		}
	}

	res, err := s.fetcher.Fetch(ctx, primary.URL, s.modsDir, primary.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", primary.Filename, err)
	}

	entry := &manifest.Entry{
		Path:      utils.RelativePath(res.Path, s.workDir),
		Hashes:    manifest.Hashes{SHA1: res.Digests.SHA1, SHA512: res.Digests.SHA512},
		Env:       &manifest.Env{Server: serverEnv, Client: clientEnv},
		Downloads: []string{primary.URL},
		FileSize:  res.Digests.Size,
	}
	m.AddEntry(entry)

	loader, _, _ := m.Loader()
	rec := &versions.Record{
		ProjectID:     release.ProjectID,
		VersionNumber: release.VersionNumber,
		FileURL:       primary.URL,
		FileSize:      res.Digests.Size,
		SHA1:          res.Digests.SHA1,
		SHA512:        res.Digests.SHA512,
		Loader:        loader,
	}
	if rec.ProjectID == "" {
		// Some catalog responses omit the project id; fall back to the
		// entry's download URL.
		if id, derr := entry.ProjectID(); derr == nil {
			rec.ProjectID = id
		}
	}
	if rec.ProjectID != "" {
		if err := s.store.Upsert(rec); err != nil {
			s.log.Warn("version cache upsert failed", zap.String("project", rec.ProjectID), zap.Error(err))
		}
	}

	s.log.Info("added mod",
		zap.String("file", primary.Filename),
		zap.String("version", release.VersionNumber),
		zap.String("project", rec.ProjectID),
	)
	return entry, nil
}

// Item is one row of a mod listing.
type Item struct {
	ProjectID string
	Path      string
	Version   string
}

// List returns one item per manifest entry, sorted by path. Entries whose
// project ID cannot be derived are listed with an empty ID rather than
// dropped. The cached version number is attached when known.
func (s *Service) List(m *manifest.Manifest) []Item {
	items := make([]Item, 0, len(m.Files))
	for _, e := range m.Files {
		item := Item{Path: e.Path}
		if id, err := e.ProjectID(); err == nil {
			item.ProjectID = id
			if rec, err := s.store.Get(id); err == nil && rec != nil {
				item.Version = rec.VersionNumber
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items
}

// Remove drops every entry matching the project ID and reports whether any
// matched. The fetched file is left on disk; backups and the next archive
// simply stop including it.
func (s *Service) Remove(m *manifest.Manifest, projectID string) bool {
	removed := m.RemoveByProject(projectID)
	if removed == 0 {
		return false
	}
	s.log.Info("removed mod", zap.String("project", projectID), zap.Int("entries", removed))
	return true
}
