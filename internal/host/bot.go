package host

import (
	"context"

	"github.com/msto63/botlang/foundation/botlang"
	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
)

// DefaultAction is taken when a script finishes without producing an action
const DefaultAction interpreter.Action = "IDLE"

// Decision is the outcome of one bot run
type Decision struct {
	Action interpreter.Action
	Result interpreter.Value

	// Explicit is false when the script produced no action and DefaultAction
	// was substituted
	Explicit bool
}

// Bot is a parsed script ready to be evaluated against many snapshots. The
// program tree is immutable, so a Bot may decide concurrently.
type Bot struct {
	engine   *botlang.Engine
	filename string
	source   string
	program  *ast.ListNode
}

// Compile parses source once
func Compile(engine *botlang.Engine, filename, source string) (*Bot, error) {
	program, err := engine.Parse(filename, source)
	if err != nil {
		return nil, err
	}
	return &Bot{
		engine:   engine,
		filename: filename,
		source:   source,
		program:  program,
	}, nil
}

// Filename returns the script name used in diagnostics
func (b *Bot) Filename() string {
	return b.filename
}

// Source returns the script text
func (b *Bot) Source() string {
	return b.source
}

// Program returns the parsed program
func (b *Bot) Program() *ast.ListNode {
	return b.program
}

// Decide runs the script against snapshot in a fresh root environment
func (b *Bot) Decide(ctx context.Context, snapshot *Snapshot) (*Decision, error) {
	var sensors interpreter.Sensors
	if snapshot != nil {
		sensors = snapshot.Sensors
		if snapshot.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, snapshot.Timeout)
			defer cancel()
		}
	}

	result, err := b.engine.Execute(ctx, b.filename, b.program, sensors)
	if err != nil {
		return nil, err
	}

	decision := &Decision{Action: DefaultAction, Result: result}
	if action, ok := botlang.DecideAction(result); ok {
		decision.Action = action
		decision.Explicit = true
	}
	return decision, nil
}
