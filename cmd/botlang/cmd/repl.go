package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/botlang/internal/tui/repl"
	"github.com/msto63/botlang/pkg/core/version"
)

func (a *app) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Starts the interactive botlang REPL. Definitions persist until
:reset or the end of the session. Sensors come from the [sensors] table
of the config file.

Navigation:
  Enter     - evaluate (an open block continues on the next line)
  Up/Down   - input history
  Ctrl+L    - clear the screen
  Ctrl+C    - quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sensors, err := a.sensors()
			if err != nil {
				return err
			}
			return repl.Run(repl.Config{
				Sensors:      sensors,
				MaxCallDepth: a.cfg.Interpreter.MaxCallDepth,
				Timeout:      a.cfg.Interpreter.Timeout.Duration,
				Version:      version.REPL,
			})
		},
	}
}
