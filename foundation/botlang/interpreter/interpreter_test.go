// File: interpreter_test.go
// Title: Botlang Interpreter Unit Tests
// Description: Tests evaluation semantics, signals, short-circuiting,
//              closures, loops, built-ins and runtime errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial test suite

package interpreter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/foundation/botlang/diag"
	"github.com/msto63/botlang/foundation/botlang/parser"
)

const botProgram = `
def func1(arg):
    print(arg)
    if _FRONT_NEIGHBOR == "ENEMY" and True:
        print("HELLO")
        return $ATTACK
    else:
        print("WORLD")
        return $MOVE
    END
END

func1(2)
`

// eval parses and executes src with the given sensors and options
func eval(t *testing.T, src string, sensors Sensors, opts Options) (Value, error) {
	t.Helper()
	program, err := parser.ParseSource("<test>", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return New(opts).Execute(program, NewRootEnvironment(sensors))
}

func mustEval(t *testing.T, src string) Value {
	t.Helper()
	v, err := eval(t, src, nil, Options{})
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

// last returns the final statement value of a program result
func last(t *testing.T, v Value) Value {
	t.Helper()
	l, ok := v.(List)
	if !ok || len(l.Elements) == 0 {
		t.Fatalf("Expected a non-empty statement list, got %s", Repr(v))
	}
	return l.Elements[len(l.Elements)-1]
}

func TestConditionalReturn(t *testing.T) {
	tests := []struct {
		src      string
		expected Value
	}{
		{"if True == True and False == False then return 0 else return 1 end", Number(0)},
		{"if True == True and False == True then return 0 else return 1 end", Number(1)},
		{"def func1():\n  if True == True and False == False:\n    return 0\n  else:\n    return 1\n  END\nEND\nreturn func1()", Number(0)},
	}
	for _, tt := range tests {
		got := mustEval(t, tt.src)
		if !Equal(got, tt.expected) {
			t.Errorf("%q: expected %s, got %s", tt.src, Repr(tt.expected), Repr(got))
		}
	}
}

func TestSensorDrivenAction(t *testing.T) {
	tests := []struct {
		front  string
		action Action
		output string
	}{
		{"ENEMY", "ATTACK", "2\nHELLO\n"},
		{"WALL", "MOVE", "2\nWORLD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.front, func(t *testing.T) {
			var out bytes.Buffer
			v, err := eval(t, botProgram, Sensors{"_FRONT_NEIGHBOR": String(tt.front)}, Options{Output: &out})
			if err != nil {
				t.Fatalf("eval failed: %v", err)
			}
			if got := last(t, v); !Equal(got, tt.action) {
				t.Errorf("Expected %s, got %s", tt.action, Repr(got))
			}
			if out.String() != tt.output {
				t.Errorf("Expected output %q, got %q", tt.output, out.String())
			}
		})
	}
}

func TestShortCircuit(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected Number
	}{
		{"and skips right side", "var x = 0\nfalse and (var x = 1)\nreturn x", 0},
		{"or skips right side", "var x = 0\ntrue or (var x = 2)\nreturn x", 0},
		{"and evaluates right side", "var x = 0\ntrue and (var x = 1)\nreturn x", 1},
		{"or evaluates right side", "var x = 0\n0 or (var x = 2)\nreturn x", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustEval(t, tt.src); !Equal(got, tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, Repr(got))
			}
		})
	}

	var out bytes.Buffer
	if _, err := eval(t, `0 and print("side effect")`, nil, Options{Output: &out}); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}

	// the right operand would fail if it were evaluated
	if got := last(t, mustEval(t, "1 or undefined_name")); !Equal(got, Number(1)) {
		t.Errorf("Expected 1, got %s", Repr(got))
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"1 + 2 * 3", "7"},
		{"7 / 2", "3.5"},
		{"7 % 3", "1"},
		{"2 ^ 10", "1024"},
		{"-(3 - 5)", "2"},
		{"not 0", "1"},
		{"not [1]", "0"},
		{`"ab" + "cd"`, `"abcd"`},
		{`"ab" * 3`, `"ababab"`},
		{`"ab" * -2`, `""`},
		{`"" * 100000000000`, `""`},
		{`"a" < "b"`, "1"},
		{"[1, 2] + 3", "[1, 2, 3]"},
		{"[1] + [2, 3]", "[1, 2, 3]"},
		{"[1, 2, 3] / 0", "1"},
		{"[1, 2, 3] / -1", "3"},
		{`[1, "a"] == [1, "a"]`, "1"},
		{`1 == "1"`, "0"},
		{"$ATTACK == $ATTACK", "1"},
		{"$ATTACK != $MOVE", "1"},
		{"null == null", "1"},
		{"3 >= 3 and 2 <= 1", "0"},
		{"2 and 3", "1"},
		{"0.1 + 0.2", "0.30000000000000004"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := Repr(last(t, mustEval(t, tt.src))); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestTopLevelResult(t *testing.T) {
	got := mustEval(t, "1\n\"two\"\n[3]")
	want := NewList(Number(1), String("two"), NewList(Number(3)))
	if !Equal(got, want) {
		t.Errorf("Expected %s, got %s", Repr(want), Repr(got))
	}

	if got := mustEval(t, "if true:\n  return 3\nend\n4"); !Equal(got, Number(3)) {
		t.Errorf("Expected top level return 3, got %s", Repr(got))
	}
	if got := mustEval(t, ""); !Equal(got, NewList()) {
		t.Errorf("Expected empty list, got %s", Repr(got))
	}
}

func TestIfBranchValues(t *testing.T) {
	tests := []struct {
		src      string
		expected Value
	}{
		{"if true then 5", Number(5)},
		{"if false then 5", Null{}},
		{"if false then 5 else 6", Number(6)},
		{"if false then 1 elif true then 2 else 3", Number(2)},
		{"if true:\n  5\nend", Null{}},
		{"if false:\n  5\nelse:\n  6\nend", Null{}},
	}
	for _, tt := range tests {
		if got := last(t, mustEval(t, tt.src)); !Equal(got, tt.expected) {
			t.Errorf("%q: expected %s, got %s", tt.src, Repr(tt.expected), Repr(got))
		}
	}
}

func TestFunctionsAndClosures(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected Value
	}{
		{"auto return", "def add(a, b) -> a + b\nreturn add(2, 3)", Number(5)},
		{"block without return", "def f():\n  1\nend\nreturn f()", Null{}},
		{"bare return", "def f():\n  return\n  2\nend\nreturn f()", Null{}},
		{"closure", "def make_adder(n) -> def (x) -> x + n\nvar add2 = make_adder(2)\nreturn add2(3)", Number(5)},
		{"curried call", "def k(a) -> def (b) -> a * b\nreturn k(3)(4)", Number(12)},
		{"recursion", "def fact(n):\n  if n <= 1 then return 1\n  return n * fact(n - 1)\nend\nreturn fact(5)", Number(120)},
		{"locals stay local", "var x = 1\ndef f():\n  var x = 2\nend\nf()\nreturn x", Number(1)},
		{"anonymous value", "var f = def () -> $IDLE\nreturn f()", Action("IDLE")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustEval(t, tt.src); !Equal(got, tt.expected) {
				t.Errorf("Expected %s, got %s", Repr(tt.expected), Repr(got))
			}
		})
	}
}

func TestLoops(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected Value
	}{
		{"inline for collects", "for i = 0 to 4 then i * 2", NewList(Number(0), Number(2), Number(4), Number(6))},
		{"negative step", "for i = 3 to 0 step -1 then i", NewList(Number(3), Number(2), Number(1))},
		{"empty range", "for i = 5 to 0 then i", NewList()},
		{"block loop is null", "for i = 0 to 3:\n  i\nend", Null{}},
		{"continue skips value", "for i = 0 to 5 then if i % 2 == 0 then continue else i", NewList(Number(1), Number(3))},
		{"inline while", "var n = 0\nwhile n < 3 then var n = n + 1", NewList(Number(1), Number(2), Number(3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := last(t, mustEval(t, tt.src)); !Equal(got, tt.expected) {
				t.Errorf("Expected %s, got %s", Repr(tt.expected), Repr(got))
			}
		})
	}

	src := "var total = 0\nwhile true:\n  var total = total + 1\n  if total == 4 then break\nend\nreturn total"
	if got := mustEval(t, src); !Equal(got, Number(4)) {
		t.Errorf("Expected break at 4, got %s", Repr(got))
	}

	src = "def first_over(limit):\n  for i = 0 to 100:\n    if i > limit then return i\n  end\n  return -1\nend\nreturn first_over(7)"
	if got := mustEval(t, src); !Equal(got, Number(8)) {
		t.Errorf("Expected return from inside loop to yield 8, got %s", Repr(got))
	}
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{`len("héllo")`, "5"},
		{"len([1, 2])", "2"},
		{"str(12)", `"12"`},
		{"str([1, \"a\"])", `"[1, \"a\"]"`},
		{`num(" 3.5 ")`, "3.5"},
		{"append([1], 2)", "[1, 2]"},
		{"pop([1, 2, 3], 1)", "[1, 3]"},
		{"pop([1, 2, 3], -1)", "[1, 2]"},
		{"is_number(1) + is_string(\"\") + is_list([]) + is_function(len) + is_action($MOVE)", "5"},
		{"is_function(def () -> 1)", "1"},
		{"is_number(\"1\")", "0"},
		{"print", "<built-in function print>"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := Repr(last(t, mustEval(t, tt.src))); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}

	var out bytes.Buffer
	if _, err := eval(t, `print([1, "a", $MOVE])`, nil, Options{Output: &out}); err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if out.String() != "[1, \"a\", $MOVE]\n" {
		t.Errorf("Unexpected print output %q", out.String())
	}

	if got := mustEval(t, "var l = [1]\nappend(l, 2)\nreturn len(l)"); !Equal(got, Number(1)) {
		t.Errorf("append must not modify its argument, got length %s", Repr(got))
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    diag.Kind
		line    int
		column  int
		message string
	}{
		{"division by zero", "1 / 0", diag.DivisionByZero, 1, 1, "division by zero"},
		{"modulo by zero", "1 % 0", diag.DivisionByZero, 1, 1, "modulo by zero"},
		{"type mismatch", `1 + "a"`, diag.TypeMismatch, 1, 1, "number and string"},
		{"unary mismatch", `-"a"`, diag.TypeMismatch, 1, 1, "unary -"},
		{"undefined name", "1 + missing", diag.UndefinedName, 1, 5, "'missing' is not defined"},
		{"missing sensor", "_RADAR", diag.UndefinedName, 1, 1, "sensor _RADAR"},
		{"unknown action", "$DANCE", diag.UndefinedName, 1, 1, "unknown action $DANCE"},
		{"not callable", "var x = 1\nx(2)", diag.NotCallable, 2, 1, "number is not callable"},
		{"index out of range", "[1, 2] / 2", diag.IndexOutOfRange, 1, 1, "out of range"},
		{"fractional index", "[1, 2] / 0.5", diag.TypeMismatch, 1, 1, "integer"},
		{"builtin arity", "len(1, 2)", diag.ArityMismatch, 1, 1, "len() takes 1"},
		{"builtin type", "len(5)", diag.TypeMismatch, 1, 1, "len() expects"},
		{"bad num", `num("x")`, diag.TypeMismatch, 1, 1, "cannot convert"},
		{"for bound", `for i = "a" to 3 then i`, diag.TypeMismatch, 1, 9, "for start"},
		{"zero step", "for i = 0 to 3 step 0 then i", diag.TypeMismatch, 1, 21, "zero"},
		{"huge repeat", `"ab" * 100000000000000000`, diag.TypeMismatch, 1, 1, "exceeds"},
		{"infinite repeat", `"ab" * (10 ^ 400)`, diag.TypeMismatch, 1, 1, "exceeds"},
		{"fractional repeat", `"ab" * 2.5`, diag.TypeMismatch, 1, 1, "integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval(t, tt.src, nil, Options{})
			de, ok := err.(*diag.Error)
			if !ok {
				t.Fatalf("Expected *diag.Error, got %v", err)
			}
			if de.Kind != tt.kind {
				t.Errorf("Expected %s, got %s", tt.kind, de.Kind)
			}
			if de.Start.Line != tt.line || de.Start.Column != tt.column {
				t.Errorf("Expected %d:%d, got %d:%d", tt.line, tt.column, de.Start.Line, de.Start.Column)
			}
			if !strings.Contains(de.Message, tt.message) {
				t.Errorf("Expected message containing %q, got %q", tt.message, de.Message)
			}
		})
	}
}

func TestArityMismatchAtCallSite(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		startCol int
		endCol   int
		message  string
	}{
		{"too few", "def f(a) -> a\nvar r = f()", 9, 12, "f() takes 1 argument(s), got 0"},
		{"too many", "def f(a) -> a\nvar r = f(1, 2)", 9, 16, "f() takes 1 argument(s), got 2"},
		{"two params one arg", "def f(a, b) -> a + b\nvar r = f(1)", 9, 13, "f() takes 2 argument(s), got 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eval(t, tt.src, nil, Options{})
			de, ok := err.(*diag.Error)
			if !ok || de.Kind != diag.ArityMismatch {
				t.Fatalf("Expected ArityMismatch, got %v", err)
			}
			// the span covers the call expression on line 2
			if de.Start.Line != 2 || de.Start.Column != tt.startCol || de.End.Line != 2 || de.End.Column != tt.endCol {
				t.Errorf("Expected span 2:%d-2:%d, got %d:%d-%d:%d", tt.startCol, tt.endCol,
					de.Start.Line, de.Start.Column, de.End.Line, de.End.Column)
			}
			if !strings.Contains(de.Message, tt.message) {
				t.Errorf("Unexpected message %q", de.Message)
			}
		})
	}
}

func TestRuntimeErrorTrace(t *testing.T) {
	src := "def inner(x) -> x / 0\ndef outer() -> inner(1)\nouter()"
	_, err := eval(t, src, nil, Options{})
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.DivisionByZero {
		t.Fatalf("Expected DivisionByZero, got %v", err)
	}
	names := make([]string, len(de.Trace))
	for i, f := range de.Trace {
		names[i] = f.Name
	}
	if diff := cmp.Diff([]string{"outer", "inner"}, names); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if de.Trace[0].Call.Line != 3 || de.Trace[1].Call.Line != 2 {
		t.Errorf("Unexpected call lines %d, %d", de.Trace[0].Call.Line, de.Trace[1].Call.Line)
	}
}

func TestRecursionLimit(t *testing.T) {
	src := "def loop(n) -> loop(n + 1)\nloop(0)"
	_, err := eval(t, src, nil, Options{MaxCallDepth: 50})
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.RecursionLimit {
		t.Fatalf("Expected RecursionLimit, got %v", err)
	}
	if len(de.Trace) != 50 {
		t.Errorf("Expected 50 frames, got %d", len(de.Trace))
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eval(t, "while true then 1", nil, Options{Context: ctx})
	if !boterror.HasCode(err, boterror.CodeTimeout) {
		t.Errorf("Expected TIMEOUT error, got %v", err)
	}
}

func TestIdempotentExecution(t *testing.T) {
	program, err := parser.ParseSource("<test>", botProgram)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sensors := Sensors{"_FRONT_NEIGHBOR": String("ENEMY")}

	in := New(Options{})
	first, err1 := in.Execute(program, NewRootEnvironment(sensors))
	second, err2 := in.Execute(program, NewRootEnvironment(sensors))
	if err1 != nil || err2 != nil {
		t.Fatalf("Unexpected errors: %v, %v", err1, err2)
	}
	if !Equal(first, second) {
		t.Errorf("Expected identical results, got %s and %s", Repr(first), Repr(second))
	}

	_, e1 := in.Execute(program, NewRootEnvironment(nil))
	_, e2 := in.Execute(program, NewRootEnvironment(nil))
	if e1 == nil || e1.Error() != e2.Error() {
		t.Errorf("Expected identical errors, got %v and %v", e1, e2)
	}
}
