package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/jobdesk"

// Version is the jobdesk release, overridable at link time with
// -ldflags "-X github.com/mesh-intelligence/jobdesk/internal/cli.Version=...".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jobdesk version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "jobdesk v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
