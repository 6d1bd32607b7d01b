package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/botlang/pkg/core/version"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.String())
			for _, component := range []string{"language", "cli", "server", "journal", "repl"} {
				fmt.Fprintf(out, "  %-9s %s\n", component+":", version.ComponentVersion(component))
			}
		},
	}
}
