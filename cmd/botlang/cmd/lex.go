package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/diag"
	"github.com/msto63/botlang/foundation/botlang/parser"
)

func (a *app) lexCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "lex <script>",
		Short: "Print the token stream of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, source, err := readScript(cmd, args[0])
			if err != nil {
				return err
			}
			tokens, err := parser.Tokenize(filename, source)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}

			if format != "text" {
				return encode(cmd.OutOrStdout(), format, ast.ExportTokens(tokens))
			}
			for _, tok := range tokens {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", diag.Location(tok.Start), tok)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}
