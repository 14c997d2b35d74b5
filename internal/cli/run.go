package cli

import (
	"aprd/internal/di"
	"aprd/internal/structures"
	"context"

	"github.com/spf13/cobra"
)

func newRunCmd(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the rotation daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), flags)
		},
	}
}

func runDaemon(ctx context.Context, flags *structures.CliFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := di.InitApp(flags)
	if err != nil {
		return err
	}
	defer app.Close()
	return app.Run(ctx)
}
