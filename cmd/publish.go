package cmd

import (
	"fmt"

	"modpack-manager/core/storage"
	"modpack-manager/feature/distribution"

	"github.com/spf13/cobra"
)

var publishVersion string

// publishCmd uploads a built release to object storage.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload a built release archive and index to object storage",
	Long: `Publish uploads the archive built for the given version, together with
the current pack index, to the configured bucket. The bucket is created if
it does not exist.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishVersion, "version", "", "Pack version to publish (required)")
	_ = publishCmd.MarkFlagRequired("version")

	RootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	client, err := storage.NewClient(rt.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	p := distribution.NewPublisher(client, rt.cfg.Storage.Bucket, rt.cfg.Pack, rt.log)
	return p.Publish(cmd.Context(), publishVersion)
}
