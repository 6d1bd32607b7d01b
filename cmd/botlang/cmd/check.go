package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	"github.com/msto63/botlang/foundation/botlang/parser"
	boterror "github.com/msto63/botlang/foundation/core/error"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>",
		Short: "Check a script without running it",
		Long: `Parses a script and lists the sensors and actions it references.

Unknown action constants fail the check. Sensors that the [sensors]
table of the config file does not bind are reported as warnings, since
a host may still provide them at run time.`,
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

			configured, err := a.sensors()
			if err != nil {
				return err
			}
			return checkReferences(cmd.OutOrStdout(), filename, ast.CollectReferences(program), configured)
		},
	}
}

func checkReferences(out io.Writer, filename string, refs ast.References, configured interpreter.Sensors) error {
	var unknown, unbound []string
	for _, name := range refs.Actions {
		if _, ok := interpreter.LookupAction(name); !ok {
			unknown = append(unknown, name)
		}
	}
	for _, name := range refs.Sensors {
		if _, ok := configured[name]; !ok {
			unbound = append(unbound, name)
		}
	}

	fmt.Fprintln(out, headerStyle.Render(filename))
	fmt.Fprintf(out, "  sensors: %s\n", orNone(refs.Sensors))
	fmt.Fprintf(out, "  actions: %s\n", orNone(refs.Actions))
	for _, name := range unbound {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("  warning: sensor %s is not configured", name)))
	}
	for _, name := range unknown {
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("  error: unknown action %s", name)))
	}

	if len(unknown) > 0 {
		return &reportedError{err: boterror.Newf("%s: %d unknown action(s)", filename, len(unknown)).
			WithCode(boterror.CodeValidationFailed)}
	}
	fmt.Fprintln(out, actionStyle.Render("  ok"))
	return nil
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
