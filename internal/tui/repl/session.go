// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     repl
// Description: Evaluation session behind the interactive REPL
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package repl

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/msto63/botlang/foundation/botlang/diag"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	"github.com/msto63/botlang/foundation/botlang/parser"
)

// Filename used in REPL diagnostics
const Filename = "<repl>"

// Entry is one evaluated input
type Entry struct {
	Input    string
	Output   string // print() output
	Value    interpreter.Value
	Err      error
	Duration time.Duration
}

// Display returns the value as the REPL shows it: a single statement shows
// its own value, null shows nothing
func (e *Entry) Display() string {
	v := e.Value
	if list, ok := v.(interpreter.List); ok && len(list.Elements) == 1 {
		v = list.Elements[0]
	}
	if v == nil {
		return ""
	}
	if _, ok := v.(interpreter.Null); ok {
		return ""
	}
	return interpreter.Repr(v)
}

// Session keeps one root environment across inputs, so definitions persist
// until Reset. Nothing survives the session.
type Session struct {
	sensors  interpreter.Sensors
	maxDepth int
	timeout  time.Duration
	env      *interpreter.Environment
	pending  []string
}

// NewSession creates a session with the given sensor bindings
func NewSession(sensors interpreter.Sensors, maxDepth int, timeout time.Duration) *Session {
	s := &Session{sensors: sensors, maxDepth: maxDepth, timeout: timeout}
	s.Reset()
	return s
}

// Reset drops all definitions and any pending input
func (s *Session) Reset() {
	s.env = interpreter.NewRootEnvironment(s.sensors)
	s.pending = nil
}

// Pending reports whether an incomplete block is being collected
func (s *Session) Pending() bool {
	return len(s.pending) > 0
}

// Names returns the names bound in the session, including built-ins
func (s *Session) Names() []string {
	return s.env.Names()
}

// Eval adds line to the input. It returns nil while a block is still open;
// an empty line forces evaluation of what was collected so far.
func (s *Session) Eval(line string) *Entry {
	if strings.TrimSpace(line) == "" && !s.Pending() {
		return nil
	}
	force := strings.TrimSpace(line) == ""
	if !force {
		s.pending = append(s.pending, line)
	}
	text := strings.Join(s.pending, "\n")

	program, err := parser.ParseSource(Filename, text)
	if err != nil && !force && incomplete(err, text) {
		return nil
	}
	s.pending = nil

	entry := &Entry{Input: text}
	if err != nil {
		entry.Err = err
		return entry
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	in := interpreter.New(interpreter.Options{
		Output:       &out,
		MaxCallDepth: s.maxDepth,
		Context:      ctx,
	})
	start := time.Now()
	entry.Value, entry.Err = in.Execute(program, s.env)
	entry.Duration = time.Since(start)
	entry.Output = out.String()
	return entry
}

// incomplete reports whether err is a syntax error at the very end of the
// input, i.e. more lines could complete it
func incomplete(err error, text string) bool {
	var e *diag.Error
	if !errors.As(err, &e) || e.Kind != diag.InvalidSyntax {
		return false
	}
	return e.Start.Index >= len([]rune(strings.TrimRight(text, " \t\r\n")))
}
