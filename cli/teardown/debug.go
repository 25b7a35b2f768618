package teardown

import (
	"fmt"

	"github.com/amadigan/teardown/internal/propagate"
	"github.com/spf13/cobra"
)

func describe(res *propagate.Result) string {
	if res == nil {
		return "-"
	}

	return res.Decision.String()
}

func NewIsDefaultCommand(cli *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "is-default [DIR]",
		Short: "Report whether the initramfs connection profiles are the NetworkManager defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cli.Config.NetworkManager.Connections
			if len(args) > 0 {
				dir = args[0]
			}

			same, err := cli.components().Detector.IsDefault(cmd.Context(), dir)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), same)

			return nil
		},
	}
}

func NewHostnameCommand(cli *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "hostname",
		Short: "Print the hostname that would be written to the real root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, err := cli.components().Hostname.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			if name != "" {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}
}
