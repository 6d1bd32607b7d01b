// File: diag.go
// Title: Botlang Diagnostics
// Description: Positioned pipeline errors with kinds, call traces and a
//              caret based source renderer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package diag holds the error type shared by the botlang lexer, parser and
// interpreter. Every error carries the source span it refers to; runtime
// errors also carry the call trace that was active when they occurred.
package diag

import (
	"errors"
	"fmt"
	"strings"

	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/utils/stringx"
)

// Kind classifies a pipeline error
type Kind int

const (
	// Lexical
	IllegalCharacter Kind = iota

	// Syntax
	InvalidSyntax

	// Runtime
	TypeMismatch
	UndefinedName
	DivisionByZero
	ArityMismatch
	NotCallable
	IndexOutOfRange
	RecursionLimit
)

var kindNames = [...]string{
	IllegalCharacter: "IllegalCharacter",
	InvalidSyntax:    "InvalidSyntax",
	TypeMismatch:     "TypeMismatch",
	UndefinedName:    "UndefinedName",
	DivisionByZero:   "DivisionByZero",
	ArityMismatch:    "ArityMismatch",
	NotCallable:      "NotCallable",
	IndexOutOfRange:  "IndexOutOfRange",
	RecursionLimit:   "RecursionLimit",
}

// String returns the kind name
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsRuntime reports whether the kind is raised during evaluation
func (k Kind) IsRuntime() bool {
	return k >= TypeMismatch
}

// Code maps the kind onto the shared error code space
func (k Kind) Code() boterror.Code {
	switch {
	case k == IllegalCharacter:
		return boterror.CodeBotlangLexical
	case k == InvalidSyntax:
		return boterror.CodeBotlangSyntax
	default:
		return boterror.CodeBotlangRuntime
	}
}

// Frame is one active function call
type Frame struct {
	Name string       // Called function
	Call ast.Position // Where it was called from
}

// Error is a positioned lexical, syntax or runtime error
type Error struct {
	Kind    Kind
	Message string
	Start   ast.Position
	End     ast.Position
	Trace   []Frame // Outermost call first; empty outside functions
}

// New creates an error spanning start to end
func New(kind Kind, message string, start, end ast.Position) *Error {
	return &Error{Kind: kind, Message: message, Start: start, End: end}
}

// Newf creates an error with a formatted message
func Newf(kind Kind, start, end ast.Position, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...), start, end)
}

// Error implements the error interface as file:line:col: Kind: message
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Start, e.Kind, e.Message)
}

// WithTrace returns a copy of e carrying trace
func (e *Error) WithTrace(trace []Frame) *Error {
	cp := *e
	cp.Trace = append([]Frame(nil), trace...)
	return &cp
}

// Code returns the shared error code of the error kind
func (e *Error) Code() boterror.Code {
	return e.Kind.Code()
}

// ToBotError converts a pipeline error into a coded error for callers
// outside the pipeline. Other errors are returned unchanged.
func ToBotError(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	return boterror.Wrap(e, e.Kind.String()).
		WithCode(e.Kind.Code()).
		WithOperation("botlang.run").
		WithDetail("kind", e.Kind.String()).
		WithDetail("file", e.Start.Filename).
		WithDetail("line", e.Start.Line).
		WithDetail("column", e.Start.Column)
}

// KindOf returns the kind of a pipeline error and whether err is one
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Snippet returns the offending source line followed by a caret line that
// underlines the error span. Spans crossing a line end are cut at the end of
// the first line. The result is empty when the source text is unavailable.
func (e *Error) Snippet() string {
	line := stringx.Line(e.Start.Text, e.Start.Line)
	if line == "" && e.Start.Text == "" {
		return ""
	}

	width := 1
	lineLen := len([]rune(line))
	if e.End.Line == e.Start.Line && e.End.Column > e.Start.Column {
		width = e.End.Column - e.Start.Column
	} else if e.End.Line > e.Start.Line {
		width = lineLen - e.Start.Column + 1
	}
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	b.WriteString(strings.ReplaceAll(line, "\t", " "))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", e.Start.Column-1))
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// Traceback renders the call trace of a runtime error, or "" when the error
// did not occur inside a function call.
func (e *Error) Traceback() string {
	if len(e.Trace) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	name := "<program>"
	for _, f := range e.Trace {
		fmt.Fprintf(&b, "  File %s, line %d, in %s\n", f.Call.Filename, f.Call.Line, name)
		name = f.Name
	}
	fmt.Fprintf(&b, "  File %s, line %d, in %s", e.Start.Filename, e.Start.Line, name)
	return b.String()
}

// Render formats err for humans: traceback, the error line and a source
// snippet. Errors that are not pipeline errors render as err.Error().
func Render(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	var parts []string
	if tb := e.Traceback(); tb != "" {
		parts = append(parts, tb)
	}
	parts = append(parts, e.Error())
	if snippet := e.Snippet(); snippet != "" {
		parts = append(parts, snippet)
	}
	return strings.Join(parts, "\n")
}

// Location returns "line:col" padded for aligned listings
func Location(p ast.Position) string {
	return stringx.PadLeft(fmt.Sprintf("%d:%d", p.Line, p.Column), 7, ' ')
}
