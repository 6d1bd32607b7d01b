// File: diag_test.go
// Title: Diagnostics Unit Tests
// Description: Tests error formatting, caret rendering, tracebacks and the
//              mapping onto shared error codes.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial test suite

package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/foundation/botlang/ast"
)

const source = "var x = 1\nvar y = x + \"a\"\n"

// at returns the position of the given line and column in source
func at(line, column int) ast.Position {
	p := ast.NewPosition("bot.bl", source)
	for p.Line < line || (p.Line == line && p.Column < column) {
		p = p.Advance([]rune(source)[p.Index])
	}
	return p
}

func TestErrorString(t *testing.T) {
	err := New(TypeMismatch, "cannot add number and string", at(2, 9), at(2, 16))
	want := "bot.bl:2:9: TypeMismatch: cannot add number and string"
	if got := err.Error(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSnippet(t *testing.T) {
	err := New(TypeMismatch, "x", at(2, 9), at(2, 16))
	want := "var y = x + \"a\"\n        ^^^^^^^"
	if got := err.Snippet(); got != want {
		t.Errorf("Expected snippet\n%s\ngot\n%s", want, got)
	}

	single := New(IllegalCharacter, "'!'", at(1, 5), at(1, 5))
	if got := single.Snippet(); !strings.HasSuffix(got, "\n    ^") {
		t.Errorf("Expected a single caret at column 5, got\n%s", got)
	}

	multi := New(InvalidSyntax, "x", at(1, 5), at(2, 3))
	if got := multi.Snippet(); !strings.HasSuffix(got, "\n    ^^^^^") {
		t.Errorf("Expected the caret to run to the end of line 1, got\n%s", got)
	}

	bare := New(InvalidSyntax, "x", ast.Position{Line: 1, Column: 1}, ast.Position{Line: 1, Column: 2})
	if got := bare.Snippet(); got != "" {
		t.Errorf("Expected no snippet without source text, got %q", got)
	}
}

func TestTraceback(t *testing.T) {
	err := New(DivisionByZero, "division by zero", at(2, 9), at(2, 16)).
		WithTrace([]Frame{{Name: "outer", Call: at(1, 1)}, {Name: "inner", Call: at(2, 1)}})

	want := strings.Join([]string{
		"Traceback (most recent call last):",
		"  File bot.bl, line 1, in <program>",
		"  File bot.bl, line 2, in outer",
		"  File bot.bl, line 2, in inner",
	}, "\n")
	if got := err.Traceback(); got != want {
		t.Errorf("Expected traceback\n%s\ngot\n%s", want, got)
	}

	if New(DivisionByZero, "x", at(1, 1), at(1, 2)).Traceback() != "" {
		t.Error("Expected no traceback at top level")
	}
}

func TestWithTraceCopies(t *testing.T) {
	base := New(UndefinedName, "x", at(1, 1), at(1, 2))
	trace := []Frame{{Name: "f", Call: at(1, 1)}}
	traced := base.WithTrace(trace)
	trace[0].Name = "changed"

	if len(base.Trace) != 0 {
		t.Error("WithTrace must not modify the receiver")
	}
	if traced.Trace[0].Name != "f" {
		t.Error("WithTrace must copy the frames")
	}
}

func TestRender(t *testing.T) {
	err := New(UndefinedName, "'z' is not defined", at(2, 9), at(2, 10))
	got := Render(fmt.Errorf("run: %w", err))
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d:\n%s", len(lines), got)
	}
	if lines[0] != err.Error() {
		t.Errorf("Expected first line %q, got %q", err.Error(), lines[0])
	}

	if got := Render(errors.New("plain")); got != "plain" {
		t.Errorf("Expected plain error text, got %q", got)
	}
	if Render(nil) != "" {
		t.Error("Expected empty rendering for nil")
	}
}

func TestKindCodes(t *testing.T) {
	tests := []struct {
		kind    Kind
		code    boterror.Code
		runtime bool
	}{
		{IllegalCharacter, boterror.CodeBotlangLexical, false},
		{InvalidSyntax, boterror.CodeBotlangSyntax, false},
		{TypeMismatch, boterror.CodeBotlangRuntime, true},
		{ArityMismatch, boterror.CodeBotlangRuntime, true},
		{RecursionLimit, boterror.CodeBotlangRuntime, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Code(); got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
			if got := tt.kind.IsRuntime(); got != tt.runtime {
				t.Errorf("Expected IsRuntime %v, got %v", tt.runtime, got)
			}
		})
	}
}

func TestToBotError(t *testing.T) {
	err := New(NotCallable, "number is not callable", at(1, 9), at(1, 10))
	wrapped := ToBotError(err)

	if !boterror.HasCode(wrapped, boterror.CodeBotlangRuntime) {
		t.Errorf("Expected BOTLANG_RUNTIME, got %s", boterror.GetCode(wrapped))
	}
	var de *Error
	if !errors.As(wrapped, &de) || de != err {
		t.Error("Expected the pipeline error to stay reachable through errors.As")
	}

	kind, ok := KindOf(wrapped)
	if !ok || kind != NotCallable {
		t.Errorf("Expected NotCallable, got %v (%v)", kind, ok)
	}

	plain := errors.New("io")
	if ToBotError(plain) != plain {
		t.Error("Expected non pipeline errors to pass through")
	}
	if _, ok := KindOf(plain); ok {
		t.Error("Expected KindOf to fail for plain errors")
	}
}

func TestLocation(t *testing.T) {
	if got := Location(at(2, 9)); got != "    2:9" {
		t.Errorf("Expected padded location, got %q", got)
	}
}
