package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/msto63/botlang/foundation/botlang"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	boterror "github.com/msto63/botlang/foundation/core/error"
	botlog "github.com/msto63/botlang/foundation/core/log"
	"github.com/msto63/botlang/internal/journal"
	"github.com/msto63/botlang/pkg/core/config"
	"github.com/msto63/botlang/pkg/core/logging"
)

// app holds the state shared by all commands of one invocation
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *botlog.Logger
}

// Execute runs the botlang command line
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			printError(root.ErrOrStderr(), err)
		}
	}
	return err
}

// NewRootCommand builds the complete command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "botlang",
		Short: "Botlang - bot scripting language toolkit",
		Long: `Botlang runs small bot scripts that read sensors such as
_FRONT_NEIGHBOR and decide on an action like $ATTACK or $MOVE.

Commands:
  run      - run a script against sensor values
  lex      - print the token stream of a script
  parse    - print the syntax tree of a script
  check    - list referenced sensors and actions
  repl     - interactive session
  serve    - websocket decision server
  history  - inspect the run journal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $BOTLANG_CONFIG or ./botlang.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.runCommand(),
		a.lexCommand(),
		a.parseCommand(),
		a.checkCommand(),
		a.replCommand(),
		a.serveCommand(),
		a.historyCommand(),
		versionCommand(),
	)
	return root
}

// setup loads the configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := a.cfg.General.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: a.cfg.General.Name,
		Level:       level,
		Format:      a.cfg.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})
	return nil
}

// engine creates an engine writing print() output to out
func (a *app) engine(out io.Writer) *botlang.Engine {
	if !a.cfg.PrintEnabled() {
		out = io.Discard
	}
	return botlang.NewEngine(botlang.Options{
		Logger:       a.logger,
		Output:       out,
		MaxCallDepth: a.cfg.Interpreter.MaxCallDepth,
		Timeout:      a.cfg.Interpreter.Timeout.Duration,
	})
}

// sensors returns the [sensors] table of the configuration
func (a *app) sensors() (interpreter.Sensors, error) {
	return interpreter.SensorsFromGo(a.cfg.Sensors)
}

// openJournal returns nil when the journal is disabled
func (a *app) openJournal() (journal.Store, error) {
	if !a.cfg.Journal.Enabled {
		return nil, nil
	}
	return journal.Open(a.cfg.Journal.Path)
}

// readScript reads a script file; "-" reads standard input
func readScript(cmd *cobra.Command, path string) (filename, source string, err error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", boterror.Wrap(err, "failed to read standard input").
				WithCode(boterror.CodeInvalidInput)
		}
		return "<stdin>", string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		code := boterror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = boterror.CodeNotFound
		}
		return "", "", boterror.Wrap(err, "failed to read script").
			WithCode(code).
			WithDetail("path", path)
	}
	return path, string(data), nil
}

// parseAssignments converts NAME=VALUE pairs into sensor values. Values
// that parse as numbers become numbers, everything else a string.
func parseAssignments(pairs []string) (interpreter.Sensors, error) {
	table := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, boterror.Newf("expected NAME=VALUE, got %q", pair).
				WithCode(boterror.CodeInvalidInput)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			table[name] = n
		} else {
			table[name] = value
		}
	}
	return interpreter.SensorsFromGo(table)
}

// encode writes v as indented JSON or YAML
func encode(out io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return boterror.Newf("unknown format %q (expected json or yaml)", format).
			WithCode(boterror.CodeInvalidInput)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("error:"), err)
}
