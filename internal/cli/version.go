package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/meetbot/internal/version"
)

func NewVersionCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return err
		},
	}
}
