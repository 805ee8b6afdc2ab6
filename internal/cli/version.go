package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the tierboard release.
const Version = "0.3.0"

const modulePath = "github.com/mesh-intelligence/tierboard"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tierboard version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tierboard v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
