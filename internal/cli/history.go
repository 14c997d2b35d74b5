package cli

import (
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/rotation"
	"aprd/internal/structures"
	"io"

	"github.com/spf13/cobra"
)

func newHistoryCmd(flags *structures.CliFlags) *cobra.Command {
	var (
		format   string
		limit    int
		archived bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent rotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := NewFormatter(format)
			if err != nil {
				return err
			}
			conf, err := providers.NewConfigProvider(flags)
			if err != nil {
				return err
			}
			var entries []models.RotationHistoryEntry
			if archived {
				compressor, err := rotation.NewZstdCompressor()
				if err != nil {
					return err
				}
				entries, err = rotation.ReadArchivedHistory(conf.Paths.LogDir, compressor, limit)
				if err != nil {
					return err
				}
			} else if entries, err = rotation.ReadHistory(conf.Paths.LogDir, limit); err != nil {
				return err
			}
			out, err := formatter.History(entries)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", FormatTable, "output format: table, json or yaml")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&archived, "archived", false, "include entries moved to compressed archives")
	return cmd
}
