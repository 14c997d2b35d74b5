package cli

import (
	"aprd/internal/providers"
	"aprd/internal/structures"
	"aprd/internal/trigger"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const relayTimeout = 5 * time.Second

func newTriggerCmd(flags *structures.CliFlags) *cobra.Command {
	var viaRelay bool

	cmd := &cobra.Command{
		Use:   "trigger <interface>",
		Short: "Request an immediate rotation of one interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := providers.NewConfigProvider(flags)
			if err != nil {
				return err
			}
			iface := args[0]
			if _, ok := conf.Interfaces[iface]; !ok {
				return fmt.Errorf("interface %q is not configured", iface)
			}

			if viaRelay {
				ctx, cancel := context.WithTimeout(cmd.Context(), relayTimeout)
				defer cancel()
				if err = trigger.SendButtonPress(ctx, conf.Relay.SocketPath, iface); err != nil {
					return fmt.Errorf("relay: %w", err)
				}
			} else if err = trigger.RequestFile(conf.Paths.RunDir, iface); err != nil {
				return fmt.Errorf("writing trigger for %s: %w", iface, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rotation of %s requested\n", iface)
			return nil
		},
	}
	cmd.Flags().BoolVar(&viaRelay, "relay", false, "send the request over the button relay socket")
	return cmd
}
