package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"modpack-manager/feature/updater"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	updateVersion     string
	updateSummary     string
	updateDryRun      bool
	updateYes         bool
	updateConcurrency int
)

// updateCmd runs a full update cycle over the pack.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update all tracked mods and build a release archive",
	Long: `Update checks every tracked mod against the upstream catalog, fetches
newer releases into the working tree, restamps the pack index with the new
version and builds the release archive.

The working tree is backed up before anything changes. With --dry-run the
decisions are reported and nothing is touched.

Examples:
  # See what would change
  modpack-manager update --version 2.0.0 --dry-run

  # Update with four parallel downloads, no prompts
  modpack-manager update --version 2.0.0 --summary "august drop" --yes`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "New pack version (required, must differ from current)")
	updateCmd.Flags().StringVar(&updateSummary, "summary", "", "Release summary stamped into the index")
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "Report decisions without changing anything")
	updateCmd.Flags().BoolVar(&updateYes, "yes", false, "Auto-confirm prompts (non-interactive)")
	updateCmd.Flags().IntVar(&updateConcurrency, "concurrency", 0, "Parallel downloads (0 uses the configured value)")
	_ = updateCmd.MarkFlagRequired("version")

	RootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	m, err := rt.loadManifest()
	if err != nil {
		return err
	}

	confirmed := true
	if rt.overridesNonEmpty() && !updateDryRun {
		confirmed = confirmOverrides(updateYes, rt.cfg.Pack.OverridesDir)
	}

	concurrency := updateConcurrency
	if concurrency <= 0 {
		concurrency = rt.cfg.Fetch.Concurrency
	}

	w := updater.NewWorkflow(rt.cfg.Pack, m, rt.store, rt.catalog, rt.fetcher, rt.log)
	report, err := w.RunUpdate(ctx, updater.Params{
		NewVersion:  updateVersion,
		Summary:     updateSummary,
		DryRun:      updateDryRun,
		Confirmed:   confirmed,
		Concurrency: concurrency,
	})
	if report != nil {
		printReport(rt.log, report)
	}
	if errors.Is(err, updater.ErrUserCancelled) {
		rt.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	return err
}

// printReport logs the per-entry outcomes that need attention plus the
// aggregate summary.
func printReport(l *zap.Logger, report *updater.Report) {
	for _, o := range report.Outcomes {
		switch o.Kind {
		case updater.OutcomeUpdated, updater.OutcomeUpdateNeeded:
			l.Info(o.Message, zap.String("project", o.ProjectID))
		case updater.OutcomeFetchError, updater.OutcomeMalformedEntry:
			l.Warn(o.Message, zap.String("project", o.ProjectID), zap.String("kind", string(o.Kind)))
		case updater.OutcomeNoCompatibleRelease:
			l.Warn(o.Message, zap.String("project", o.ProjectID))
		}
	}

	s := report.Summary
	l.Info("Update report",
		zap.Int("updated", s.Updated),
		zap.Int("up_to_date", s.UpToDate),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped),
		zap.Int("transfers", report.Transfers),
	)
}
