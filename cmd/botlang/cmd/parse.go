package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/parser"
)

func (a *app) parseCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <script>",
		Short: "Print the syntax tree of a script",
		Long: `Parses a script and prints its syntax tree as YAML or JSON.
Every node carries its kind under "type" and its source positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, source, err := readScript(cmd, args[0])
			if err != nil {
				return err
			}
			program, err := parser.ParseSource(filename, source)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			return encode(cmd.OutOrStdout(), format, ast.Export(program))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: json or yaml")
	return cmd
}
