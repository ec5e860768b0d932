package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"modpack-manager/feature/updater"

	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildSummary string
	buildYes     bool
)

// buildCmd re-versions and re-archives the pack without touching upstream.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the release archive without updating mods",
	Long: `Build restamps the pack index with a new version and produces a fresh
release archive from the current working tree. No catalog lookups and no
downloads happen; use it after hand-editing overrides or the index.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildVersion, "version", "", "New pack version (required, must differ from current)")
	buildCmd.Flags().StringVar(&buildSummary, "summary", "", "Release summary stamped into the index")
	buildCmd.Flags().BoolVar(&buildYes, "yes", false, "Auto-confirm prompts (non-interactive)")
	_ = buildCmd.MarkFlagRequired("version")

	RootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
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
	if rt.overridesNonEmpty() {
		confirmed = confirmOverrides(buildYes, rt.cfg.Pack.OverridesDir)
	}

	w := updater.NewWorkflow(rt.cfg.Pack, m, rt.store, rt.catalog, rt.fetcher, rt.log)
	_, err = w.RunBuild(ctx, updater.Params{
		NewVersion: buildVersion,
		Summary:    buildSummary,
		Confirmed:  confirmed,
	})
	if errors.Is(err, updater.ErrUserCancelled) {
		rt.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	return err
}
