// File: value.go
// Title: Botlang Runtime Values
// Description: Defines the sealed set of runtime values together with
//              truthiness, equality and display helpers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial value model

package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/msto63/botlang/foundation/botlang/ast"
)

// Value is a runtime value. The set of implementations is closed.
type Value interface {
	// TypeName returns the user facing type name
	TypeName() string

	// String returns the display form used by print and str
	String() string

	sealed()
}

// Number is the only numeric type; booleans are 0 and 1
type Number float64

// String is an immutable string
type String string

// List is an immutable sequence. Operations build new lists.
type List struct {
	Elements []Value
}

// Null is the absence of a value
type Null struct{}

// Action is a symbolic bot action such as ATTACK
type Action string

// Function is a user defined closure
type Function struct {
	Name       string
	Params     []string
	Body       ast.Node
	AutoReturn bool
	Env        *Environment // Defining scope
}

// Builtin is a function implemented in Go
type Builtin struct {
	Name  string
	Arity int // -1 accepts any number of arguments
	Fn    func(call *CallContext, args []Value) (Value, error)
}

func (Number) sealed()    {}
func (String) sealed()    {}
func (List) sealed()      {}
func (Null) sealed()      {}
func (Action) sealed()    {}
func (*Function) sealed() {}
func (*Builtin) sealed()  {}

func (Number) TypeName() string    { return "number" }
func (String) TypeName() string    { return "string" }
func (List) TypeName() string      { return "list" }
func (Null) TypeName() string      { return "null" }
func (Action) TypeName() string    { return "action" }
func (*Function) TypeName() string { return "function" }
func (*Builtin) TypeName() string  { return "function" }

// String formats integral numbers without a fractional part
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func (s String) String() string { return string(s) }

func (l List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = Repr(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (Null) String() string { return "null" }

// String returns the source form, e.g. $ATTACK
func (a Action) String() string { return "$" + string(a) }

func (f *Function) String() string { return "<function " + f.Name + ">" }

func (b *Builtin) String() string { return "<built-in function " + b.Name + ">" }

// Repr returns the form shown by the REPL: strings are quoted, everything
// else matches String.
func Repr(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// Bool converts a Go bool into 0 or 1
func Bool(b bool) Number {
	if b {
		return 1
	}
	return 0
}

// NewList creates a list from values
func NewList(values ...Value) List {
	return List{Elements: values}
}

// Truthy reports whether v counts as true: 0, "", [] and null are false
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Number:
		return v != 0
	case String:
		return v != ""
	case List:
		return len(v.Elements) > 0
	case Null:
		return false
	}
	return true
}

// Equal compares values of any kind; values of different kinds are unequal
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		bn, ok := b.(Number)
		return ok && a == bn
	case String:
		bs, ok := b.(String)
		return ok && a == bs
	case Action:
		ba, ok := b.(Action)
		return ok && a == ba
	case Null:
		_, ok := b.(Null)
		return ok
	case List:
		bl, ok := b.(List)
		if !ok || len(a.Elements) != len(bl.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], bl.Elements[i]) {
				return false
			}
		}
		return true
	case *Function:
		bf, ok := b.(*Function)
		return ok && a == bf
	case *Builtin:
		bb, ok := b.(*Builtin)
		return ok && a == bb
	}
	return false
}

// Actions is the fixed action table bound as $ATTACK ... $IDLE
var Actions = []Action{"ATTACK", "MOVE", "TURN_LEFT", "TURN_RIGHT", "IDLE"}

// LookupAction returns the action for a tag with or without the $ prefix
func LookupAction(tag string) (Action, bool) {
	tag = strings.TrimPrefix(tag, "$")
	for _, a := range Actions {
		if string(a) == tag {
			return a, true
		}
	}
	return "", false
}
