package updater

import (
	"context"
	"fmt"
	"time"

	"modpack-manager/core/fetch"
	"modpack-manager/feature/catalog"
	"modpack-manager/feature/manifest"
	"modpack-manager/feature/versions"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Params are the inputs to one workflow run.
type Params struct {
	// NewVersion must differ from the manifest's current version.
	NewVersion string
	// Summary is the human-readable description stamped into the index.
	Summary string
	// DryRun reports decisions without backup, mutation or archiving.
	DryRun bool
	// Confirmed acknowledges a non-empty overrides directory. The caller
	// collects the confirmation (prompt or --yes flag).
	Confirmed bool
	// Concurrency bounds parallel transfers during reconciliation.
	Concurrency int
}

// Workflow drives a full update or build cycle over one manifest/cache
// pair. It owns the manifest and cache for the duration of a run; all
// handles are passed in at construction, never taken from globals.
type Workflow struct {
	cfg      Config
	manifest *manifest.Manifest
	store    *versions.Store
	catalog  catalog.Client
	fetcher  fetch.Fetcher
	log      *zap.Logger

	state State
	runID string
}

// NewWorkflow assembles a workflow run.
func NewWorkflow(cfg Config, m *manifest.Manifest, store *versions.Store, cat catalog.Client, fetcher fetch.Fetcher, log *zap.Logger) *Workflow {
	runID := uuid.NewString()
	return &Workflow{
		cfg:      cfg,
		manifest: m,
		store:    store,
		catalog:  cat,
		fetcher:  fetcher,
		log:      log.With(zap.String("run_id", runID)),
		state:    StateIdle,
		runID:    runID,
	}
}

// RunUpdate executes the full cycle: preflight, backup, reconciliation,
// restamp, archive. On dry runs only the reconciliation decisions happen.
func (w *Workflow) RunUpdate(ctx context.Context, params Params) (*Report, error) {
	return w.run(ctx, params, true)
}

// RunBuild re-versions and re-archives the pack without contacting the
// catalog: the same cycle minus the reconciliation pass.
func (w *Workflow) RunBuild(ctx context.Context, params Params) (*Report, error) {
	return w.run(ctx, params, false)
}

func (w *Workflow) run(ctx context.Context, params Params, reconcile bool) (*Report, error) {
	if err := w.preflight(params); err != nil {
		return nil, err
	}

	if err := w.backup(params); err != nil {
		return nil, err
	}

	report := &Report{}
	if reconcile {
		var err error
		report, err = w.reconcile(ctx, params)
		if err != nil {
			return report, err
		}
	} else {
		if err := w.transition(StateRestamping); err != nil {
			return nil, err
		}
	}

	if params.DryRun {
		if err := w.transition(StateDone); err != nil {
			return report, err
		}
		w.logSummary(report)
		w.log.Info("dry run complete, no changes were made")
		return report, nil
	}

	if err := w.restamp(params, report); err != nil {
		return report, err
	}

	if err := w.archive(params); err != nil {
		return report, err
	}

	if err := w.transition(StateDone); err != nil {
		return report, err
	}
	w.logSummary(report)
	return report, nil
}

// preflight validates the run inputs. Aborting here has no side effects.
func (w *Workflow) preflight(params Params) error {
	if err := w.transition(StatePreflight); err != nil {
		return err
	}

	if params.NewVersion == "" || params.NewVersion == w.manifest.VersionID {
		w.state = StateAborted
		return fmt.Errorf("%w: %q", ErrVersionUnchanged, w.manifest.VersionID)
	}

	if overridesNonEmpty(w.cfg.OverridesDir) && !params.Confirmed {
		w.state = StateAborted
		return fmt.Errorf("%w: overrides directory %s is not empty", ErrUserCancelled, w.cfg.OverridesDir)
	}

	return nil
}

// backup copies the working tree aside. Skipped entirely on dry runs;
// otherwise a failure is fatal, reconciliation never runs without it.
func (w *Workflow) backup(params Params) error {
	if err := w.transition(StateBackup); err != nil {
		return err
	}
	if params.DryRun {
		w.log.Info("dry run, skipping backup")
		return nil
	}

	backupPath, err := backupTree(w.cfg.WorkDir, w.cfg.BackupsDir, time.Now())
	if err != nil {
		w.state = StateAborted
		return &BackupError{Err: err}
	}
	if backupPath != "" {
		w.log.Info("backup created", zap.String("path", backupPath))
	}
	return nil
}

func (w *Workflow) reconcile(ctx context.Context, params Params) (*Report, error) {
	if err := w.transition(StateReconciling); err != nil {
		return nil, err
	}

	gameVersion, ok := w.manifest.GameVersion()
	if !ok {
		return nil, fmt.Errorf("manifest has no minecraft version dependency")
	}
	loader, _, ok := w.manifest.Loader()
	if !ok {
		return nil, fmt.Errorf("manifest has no mod loader dependency")
	}

	r := NewReconciler(w.store, w.catalog, w.fetcher, w.cfg.WorkDir, w.cfg.ModsPath(), w.log)
	report, err := r.Reconcile(ctx, w.manifest, Options{
		GameVersion: gameVersion,
		Loader:      loader,
		DryRun:      params.DryRun,
		Concurrency: params.Concurrency,
	})
	if err != nil {
		return report, fmt.Errorf("reconciliation aborted: %w", err)
	}

	if err := w.transition(StateRestamping); err != nil {
		return report, err
	}
	return report, nil
}

// restamp sets the new version metadata, persists the index atomically,
// commits the staged cache records and appends the run's update log. The
// cache is written strictly after the index: a crash between the two leaves
// the cache behind, which the next run repairs by re-fetching, whereas a
// cache ahead of the index would hide the update forever.
func (w *Workflow) restamp(params Params, report *Report) error {
	w.manifest.VersionID = params.NewVersion
	w.manifest.Summary = params.Summary

	if err := w.manifest.Validate(); err != nil {
		return &PersistError{Err: err}
	}
	if err := w.manifest.Save(w.cfg.ManifestPath()); err != nil {
		return &PersistError{Err: err}
	}

	w.commitCache(report)

	if err := appendRunLog(w.cfg.LogsDir, w.runID, report, time.Now()); err != nil {
		return &PersistError{Err: err}
	}

	return w.transition(StateArchiving)
}

// commitCache flushes the cache records staged during reconciliation. The
// index is already durable here, so a failed upsert only means the entry is
// re-verified (and at worst re-fetched) on the next run.
func (w *Workflow) commitCache(report *Report) {
	for _, rec := range report.staged() {
		if err := w.store.Upsert(rec); err != nil {
			w.log.Warn("version cache upsert failed", zap.String("project", rec.ProjectID), zap.Error(err))
		}
	}
}

func (w *Workflow) archive(params Params) error {
	archivePath, err := writeArchive(w.cfg.OutputDir, params.NewVersion, w.cfg.ManifestPath(), w.cfg.OverridesDir, time.Now())
	if err != nil {
		return &PersistError{Err: err}
	}
	w.log.Info("archive created", zap.String("path", archivePath))
	return nil
}

func (w *Workflow) logSummary(report *Report) {
	s := report.Summary
	w.log.Info("run summary",
		zap.Int("updated", s.Updated),
		zap.Int("up_to_date", s.UpToDate),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped),
		zap.Int("transfers", report.Transfers),
	)
}
