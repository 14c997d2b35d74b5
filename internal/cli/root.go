package cli

import (
	"aprd/internal/providers"
	"aprd/internal/structures"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the aprd command tree. Running aprd without a
// subcommand starts the daemon.
func NewRootCmd() *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:           "aprd",
		Short:         "Rotate kiosk access point credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", providers.DefaultConfigPath, "path to the configuration file")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(flags),
		newTriggerCmd(flags),
		newStatusCmd(flags),
		newHistoryCmd(flags),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
