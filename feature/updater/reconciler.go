package updater

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"modpack-manager/core/fetch"
	"modpack-manager/core/utils"
	"modpack-manager/feature/catalog"
	"modpack-manager/feature/manifest"
	"modpack-manager/feature/versions"

	"go.uber.org/zap"
)

// Options controls a reconciliation pass.
type Options struct {
	// GameVersion and Loader select compatible upstream releases.
	GameVersion string
	Loader      string
	// DryRun reports decisions without touching disk, cache or manifest.
	DryRun bool
	// Concurrency bounds parallel transfers; <= 1 runs sequentially.
	Concurrency int
}

// Reconciler compares upstream, cached and on-disk state for every manifest
// entry and applies the minimal corrective action. It holds mutable access
// to the manifest and cache for the duration of one pass only.
type Reconciler struct {
	store   *versions.Store
	catalog catalog.Client
	fetcher fetch.Fetcher
	log     *zap.Logger

	// workDir is the pack working tree root; entry paths are relative to
	// it. modsDir is where fetched artifacts land.
	workDir string
	modsDir string
}

// NewReconciler creates a reconciler over the given collaborators.
func NewReconciler(store *versions.Store, cat catalog.Client, fetcher fetch.Fetcher, workDir, modsDir string, log *zap.Logger) *Reconciler {
	return &Reconciler{
		store:   store,
		catalog: cat,
		fetcher: fetcher,
		log:     log,
		workDir: workDir,
		modsDir: modsDir,
	}
}

// decision is the per-entry plan produced by the sequential phase.
type decision struct {
	index   int
	entry   *manifest.Entry
	project string
	release *catalog.Release
}

// Reconcile runs the pass over all manifest entries. Per-entry failures are
// recovered locally and surfaced via the report; the only run-level error
// is context cancellation.
func (r *Reconciler) Reconcile(ctx context.Context, m *manifest.Manifest, opts Options) (*Report, error) {
	outcomes := make([]Outcome, len(m.Files))
	var updates []decision

	// Phase 1: catalog lookups and decisions, in manifest order.
	for i, entry := range m.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		projectID, err := entry.ProjectID()
		if err != nil {
			outcomes[i] = Outcome{Kind: OutcomeMalformedEntry, Message: err.Error()}
			continue
		}

		release, err := r.catalog.LatestRelease(ctx, projectID, opts.GameVersion, opts.Loader)
		if err != nil || release == nil {
			msg := fmt.Sprintf("no release for %s/%s", opts.GameVersion, opts.Loader)
			if err != nil {
				msg = fmt.Sprintf("catalog lookup failed: %v", err)
			}
			outcomes[i] = Outcome{ProjectID: projectID, Kind: OutcomeNoCompatibleRelease, Message: msg}
			continue
		}

		cached, err := r.store.Get(projectID)
		if err != nil {
			// A broken cache read degrades to "no cache record".
			r.log.Warn("version cache read failed", zap.String("project", projectID), zap.Error(err))
			cached = nil
		}

		if cached != nil && r.localMatchesCache(entry, cached) {
			// A locally verified file wins over the upstream version
			// comparison: the bytes we have are the bytes we synced.
			outcomes[i] = Outcome{ProjectID: projectID, Kind: OutcomeUpToDate, Message: "local file digest matches cache"}
			continue
		}

		if cached != nil && cached.VersionNumber == release.VersionNumber {
			outcomes[i] = Outcome{ProjectID: projectID, Kind: OutcomeUpToDate,
				Message: fmt.Sprintf("cached version %s is current", cached.VersionNumber)}
			continue
		}

		if opts.DryRun {
			outcomes[i] = Outcome{ProjectID: projectID, Kind: OutcomeUpdateNeeded,
				Message: fmt.Sprintf("would update to %s", release.VersionNumber)}
			continue
		}

		updates = append(updates, decision{index: i, entry: entry, project: projectID, release: release})
	}

	// Phase 2: transfers, possibly fanned out. Entry mutations are
	// disjoint by construction; cache records are staged on the report
	// and committed by the workflow after the index persists.
	report := &Report{}
	if len(updates) > 0 {
		tasks := make([]func(context.Context), len(updates))
		for j, d := range updates {
			d := d
			tasks[j] = func(taskCtx context.Context) {
				outcomes[d.index] = r.applyUpdate(taskCtx, d, opts.Loader, report)
			}
		}

		executor := NewExecutor(opts.Concurrency)
		if err := executor.Execute(ctx, tasks); err != nil {
			// Interrupted: entries whose task never ran keep a zero
			// outcome; surface them as aborted, not silently dropped.
			for _, d := range updates {
				if outcomes[d.index].Kind == "" {
					outcomes[d.index] = Outcome{ProjectID: d.project, Kind: OutcomeFetchError,
						Message: "interrupted before transfer"}
				}
			}
			report.Outcomes = outcomes
			report.tally()
			return report, err
		}
	}

	report.Outcomes = outcomes
	report.tally()
	return report, nil
}

// localMatchesCache verifies the on-disk file against the cached digest.
// This short-circuit avoids re-downloading when cache and disk already
// agree, independent of the upstream version number.
func (r *Reconciler) localMatchesCache(entry *manifest.Entry, cached *versions.Record) bool {
	if entry.Path == "" {
		return false
	}
	localPath := filepath.Join(r.workDir, filepath.FromSlash(entry.Path))
	if _, err := os.Stat(localPath); err != nil {
		return false
	}
	digests, err := utils.HashFile(localPath)
	if err != nil {
		return false
	}
	return digests.SHA1 == cached.SHA1
}

// applyUpdate fetches the release's primary file and stamps the manifest
// entry and cache record together. A fetch failure leaves both untouched.
func (r *Reconciler) applyUpdate(ctx context.Context, d decision, loader string, report *Report) Outcome {
	primary := d.release.PrimaryFile()
	if primary == nil {
		return Outcome{ProjectID: d.project, Kind: OutcomeFetchError,
			Message: fmt.Sprintf("release %s has no files", d.release.VersionNumber)}
	}

	res, err := r.fetcher.Fetch(ctx, primary.URL, r.modsDir, primary.Size)
	if err != nil {
		return Outcome{ProjectID: d.project, Kind: OutcomeFetchError, Message: err.Error()}
	}

	// The entry is mutated in memory and the matching cache record is
	// staged. Both become durable in the workflow's persist step, index
	// first, so the cache never claims a version the index does not hold.
	d.entry.Downloads = []string{primary.URL}
	d.entry.Path = utils.RelativePath(res.Path, r.workDir)
	d.entry.Hashes = manifest.Hashes{SHA1: res.Digests.SHA1, SHA512: res.Digests.SHA512}
	d.entry.FileSize = res.Digests.Size

	report.stageRecord(&versions.Record{
		ProjectID:     d.project,
		VersionNumber: d.release.VersionNumber,
		FileURL:       primary.URL,
		FileSize:      res.Digests.Size,
		SHA1:          res.Digests.SHA1,
		SHA512:        res.Digests.SHA512,
		Loader:        loader,
	})

	r.log.Info("updated mod",
		zap.String("project", d.project),
		zap.String("file", primary.Filename),
		zap.String("version", d.release.VersionNumber),
		zap.Bool("transferred", res.Transferred),
	)

	return Outcome{ProjectID: d.project, Kind: OutcomeUpdated,
		Message: fmt.Sprintf("updated %s to version %s", primary.Filename, d.release.VersionNumber)}
}
