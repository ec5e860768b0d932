package cmd

import (
	"fmt"

	"modpack-manager/feature/mods"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	modServerEnv string
	modClientEnv string
)

// modCmd is the parent command for single-mod operations.
var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Manage individual mods in the pack index",
}

var modAddCmd = &cobra.Command{
	Use:   "add <release-id>",
	Short: "Add a mod by its catalog release ID",
	Long: `Add resolves a release by its catalog ID, downloads its primary file
into the mods directory and appends a fully stamped entry to the pack index.

Example:
  modpack-manager mod add ver123 --server required --client optional`,
	Args: cobra.ExactArgs(1),
	RunE: runModAdd,
}

var modListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked mods",
	Args:  cobra.NoArgs,
	RunE:  runModList,
}

var modRemoveCmd = &cobra.Command{
	Use:   "remove <project-id>",
	Short: "Remove a mod by its project ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runModRemove,
}

func init() {
	modAddCmd.Flags().StringVar(&modServerEnv, "server", "required", "Server-side requirement (required, optional, unsupported)")
	modAddCmd.Flags().StringVar(&modClientEnv, "client", "required", "Client-side requirement (required, optional, unsupported)")

	modCmd.AddCommand(modAddCmd)
	modCmd.AddCommand(modListCmd)
	modCmd.AddCommand(modRemoveCmd)
	RootCmd.AddCommand(modCmd)
}

func (r *runtime) modService() *mods.Service {
	return mods.NewService(r.store, r.catalog, r.fetcher, r.cfg.Pack.WorkDir, r.cfg.Pack.ModsPath(), r.log)
}

func runModAdd(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	m, err := rt.loadManifest()
	if err != nil {
		return err
	}

	entry, err := rt.modService().Add(cmd.Context(), m, args[0], modServerEnv, modClientEnv)
	if err != nil {
		return err
	}

	if err := m.Save(rt.cfg.Pack.ManifestPath()); err != nil {
		return fmt.Errorf("failed to persist pack index: %w", err)
	}
	rt.log.Info("pack index updated", zap.String("path", entry.Path))
	return nil
}

func runModList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	m, err := rt.loadManifest()
	if err != nil {
		return err
	}

	items := rt.modService().List(m)
	if len(items) == 0 {
		fmt.Println("no mods tracked")
		return nil
	}
	for _, item := range items {
		version := item.Version
		if version == "" {
			version = "?"
		}
		fmt.Printf("%-24s %-10s %s\n", item.ProjectID, version, item.Path)
	}
	return nil
}

func runModRemove(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	m, err := rt.loadManifest()
	if err != nil {
		return err
	}

	if !rt.modService().Remove(m, args[0]) {
		return fmt.Errorf("no entry matches project %s", args[0])
	}
	if err := m.Save(rt.cfg.Pack.ManifestPath()); err != nil {
		return fmt.Errorf("failed to persist pack index: %w", err)
	}
	return nil
}
