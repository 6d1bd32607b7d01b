// File: botlang.go
// Title: Botlang Engine
// Description: High level API that runs botlang scripts: lexing, parsing
//              and evaluation against host sensors, with run logging.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial engine implementation

// Package botlang is the entry point of the bot scripting language. A
// script reads host sensors such as _FRONT_NEIGHBOR and returns one of the
// action constants $ATTACK, $MOVE, $TURN_LEFT, $TURN_RIGHT or $IDLE:
//
//	engine := botlang.NewEngine()
//	result, err := engine.RunWithSensors("bot.bl", source, interpreter.Sensors{
//		"_FRONT_NEIGHBOR": interpreter.String("ENEMY"),
//	})
//	action, ok := botlang.DecideAction(result)
//
// Errors are *diag.Error values; diag.Render formats them with a caret
// under the offending source.
package botlang

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	boterror "github.com/msto63/botlang/foundation/core/error"
	botlog "github.com/msto63/botlang/foundation/core/log"
	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/diag"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	"github.com/msto63/botlang/foundation/botlang/parser"
)

// Options configures the engine behavior
type Options struct {
	// Logger for run diagnostics (optional, defaults to the default logger)
	Logger *botlog.Logger

	// Output receives print() output (default: os.Stdout)
	Output io.Writer

	// MaxCallDepth bounds nested calls (default: 512)
	MaxCallDepth int

	// Timeout cancels a run that takes longer (default: no timeout)
	Timeout time.Duration
}

// Engine runs botlang scripts. An Engine may be used from several
// goroutines; every run gets its own interpreter and root environment.
type Engine struct {
	logger  *botlog.Logger
	options Options
}

// NewEngine creates an engine with optional options
func NewEngine(opts ...Options) *Engine {
	options := Options{
		Logger:       botlog.GetDefault(),
		Output:       os.Stdout,
		MaxCallDepth: interpreter.DefaultMaxCallDepth,
	}
	if len(opts) > 0 {
		provided := opts[0]
		if provided.Logger != nil {
			options.Logger = provided.Logger
		}
		if provided.Output != nil {
			options.Output = provided.Output
		}
		if provided.MaxCallDepth > 0 {
			options.MaxCallDepth = provided.MaxCallDepth
		}
		options.Timeout = provided.Timeout
	}

	return &Engine{
		logger:  options.Logger.WithField("component", "botlang-engine"),
		options: options,
	}
}

// Tokenize returns the token stream of text
func (e *Engine) Tokenize(filename, text string) ([]ast.Token, error) {
	return parser.Tokenize(filename, text)
}

// Parse returns the program tree of text
func (e *Engine) Parse(filename, text string) (*ast.ListNode, error) {
	return parser.ParseSource(filename, text)
}

// Run runs text without sensors
func (e *Engine) Run(filename, text string) (interpreter.Value, error) {
	return e.RunContext(context.Background(), filename, text, nil)
}

// RunWithSensors runs text with the given sensor bindings
func (e *Engine) RunWithSensors(filename, text string, sensors interpreter.Sensors) (interpreter.Value, error) {
	return e.RunContext(context.Background(), filename, text, sensors)
}

// RunContext lexes, parses and executes text. The result is the value of a
// top-level return, or the list of all top-level statement values.
func (e *Engine) RunContext(ctx context.Context, filename, text string, sensors interpreter.Sensors) (interpreter.Value, error) {
	program, err := e.Parse(filename, text)
	if err != nil {
		e.logger.Debug("run rejected", botlog.Fields{
			"filename": filename,
			"error":    err.Error(),
		})
		return nil, err
	}
	return e.Execute(ctx, filename, program, sensors)
}

// Execute evaluates an already parsed program. Programs are immutable and
// may be executed concurrently.
func (e *Engine) Execute(ctx context.Context, filename string, program *ast.ListNode, sensors interpreter.Sensors) (interpreter.Value, error) {
	if err := sensors.Validate(); err != nil {
		return nil, err
	}
	if e.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.Timeout)
		defer cancel()
	}

	logger := e.logger.WithRunID(uuid.NewString())
	logger.Debug("run started", botlog.Fields{
		"filename":   filename,
		"statements": len(program.Elements),
		"sensors":    sensors.Names(),
	})
	timer := logger.StartTimer("run").WithField("filename", filename)

	in := interpreter.New(interpreter.Options{
		Output:       e.options.Output,
		MaxCallDepth: e.options.MaxCallDepth,
		Context:      ctx,
	})
	result, err := in.Execute(program, interpreter.NewRootEnvironment(sensors))
	if err != nil {
		if kind, ok := diag.KindOf(err); ok {
			timer.WithField("error_kind", kind.String())
		} else {
			err = boterror.Wrap(err, "run failed").WithDetail("filename", filename)
		}
		timer.WithField("error", err.Error()).Stop()
		return nil, err
	}

	timer.WithField("result", interpreter.Repr(result)).Stop()
	return result, nil
}

// Run runs text with a default engine and no sensors
func Run(filename, text string) (interpreter.Value, error) {
	return NewEngine().Run(filename, text)
}

// DecideAction extracts the action a host should perform from a run
// result: the result itself, or the last top-level statement value.
func DecideAction(result interpreter.Value) (interpreter.Action, bool) {
	switch v := result.(type) {
	case interpreter.Action:
		return v, true
	case interpreter.List:
		if n := len(v.Elements); n > 0 {
			a, ok := v.Elements[n-1].(interpreter.Action)
			return a, ok
		}
	}
	return "", false
}
