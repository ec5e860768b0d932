package cmd

import (
	"fmt"
	"os"

	"modpack-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "modpack-manager",
	Short: "Modpack Manager",
	Long: `Modpack Manager keeps a declarative modpack in sync with its upstream
catalog: it updates tracked mods, rebuilds release archives, and serves or
publishes the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the standard logger; console format matches CLI
		// expectations and debug level gives readable timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
