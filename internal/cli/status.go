package cli

import (
	"aprd/internal/models"
	"aprd/internal/providers"
	"aprd/internal/rotation"
	"aprd/internal/structures"
	"io"

	"github.com/spf13/cobra"
)

func newStatusCmd(flags *structures.CliFlags) *cobra.Command {
	var (
		format     string
		showSecret bool
	)

	cmd := &cobra.Command{
		Use:   "status [interface]",
		Short: "Show the published status of the managed interfaces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := NewFormatter(format)
			if err != nil {
				return err
			}
			conf, err := providers.NewConfigProvider(flags)
			if err != nil {
				return err
			}

			var statuses []models.PublishedStatus
			if len(args) == 1 {
				status, err := rotation.ReadStatus(conf.Paths.RunDir, args[0])
				if err != nil {
					return err
				}
				statuses = append(statuses, status)
			} else if statuses, err = rotation.ReadAllStatuses(conf.Paths.RunDir); err != nil {
				return err
			}

			if !showSecret {
				for i := range statuses {
					statuses[i] = statuses[i].Redacted()
				}
			}
			out, err := formatter.Statuses(statuses)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", FormatTable, "output format: table, json or yaml")
	cmd.Flags().BoolVar(&showSecret, "show-secret", false, "include the passphrase and QR payload")
	return cmd
}
