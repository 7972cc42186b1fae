package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the admindesk release.
const Version = "0.4.0"

const modulePath = "github.com/mesh-intelligence/admindesk"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the admindesk version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "admindesk v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
