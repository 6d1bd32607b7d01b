// File: builtins.go
// Title: Built-in Functions
// Description: Functions bound in every root environment.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial set of built-ins

package interpreter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/msto63/botlang/foundation/botlang/diag"
)

// builtins is shared by all runs and never modified
var builtins = []*Builtin{
	{Name: "print", Arity: 1, Fn: builtinPrint},
	{Name: "len", Arity: 1, Fn: builtinLen},
	{Name: "str", Arity: 1, Fn: builtinStr},
	{Name: "num", Arity: 1, Fn: builtinNum},
	{Name: "is_number", Arity: 1, Fn: isType(func(v Value) bool { _, ok := v.(Number); return ok })},
	{Name: "is_string", Arity: 1, Fn: isType(func(v Value) bool { _, ok := v.(String); return ok })},
	{Name: "is_list", Arity: 1, Fn: isType(func(v Value) bool { _, ok := v.(List); return ok })},
	{Name: "is_function", Arity: 1, Fn: isType(func(v Value) bool { return v.TypeName() == "function" })},
	{Name: "is_action", Arity: 1, Fn: isType(func(v Value) bool { _, ok := v.(Action); return ok })},
	{Name: "append", Arity: 2, Fn: builtinAppend},
	{Name: "pop", Arity: 2, Fn: builtinPop},
}

// Builtins returns the names of all built-in functions
func Builtins() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.Name
	}
	return names
}

func builtinPrint(call *CallContext, args []Value) (Value, error) {
	if _, err := fmt.Fprintln(call.Output(), args[0].String()); err != nil {
		return nil, err
	}
	return Null{}, nil
}

func builtinLen(call *CallContext, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case String:
		return Number(utf8.RuneCountInString(string(v))), nil
	case List:
		return Number(len(v.Elements)), nil
	}
	return nil, call.Errorf(diag.TypeMismatch, "len() expects a string or list, got %s", args[0].TypeName())
}

func builtinStr(_ *CallContext, args []Value) (Value, error) {
	return String(args[0].String()), nil
}

func builtinNum(call *CallContext, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case Number:
		return v, nil
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, call.Errorf(diag.TypeMismatch, "num() cannot convert %s", Repr(v))
		}
		return Number(f), nil
	}
	return nil, call.Errorf(diag.TypeMismatch, "num() expects a number or string, got %s", args[0].TypeName())
}

func isType(pred func(Value) bool) func(*CallContext, []Value) (Value, error) {
	return func(_ *CallContext, args []Value) (Value, error) {
		return Bool(pred(args[0])), nil
	}
}

func builtinAppend(call *CallContext, args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, call.Errorf(diag.TypeMismatch, "append() expects a list, got %s", args[0].TypeName())
	}
	return concat(l.Elements, args[1]), nil
}

// builtinPop returns a new list without the element at the given index
func builtinPop(call *CallContext, args []Value) (Value, error) {
	l, ok := args[0].(List)
	if !ok {
		return nil, call.Errorf(diag.TypeMismatch, "pop() expects a list, got %s", args[0].TypeName())
	}
	idx, ok := args[1].(Number)
	if !ok {
		return nil, call.Errorf(diag.TypeMismatch, "pop() expects a number index, got %s", args[1].TypeName())
	}
	i, opErr := resolveIndex(l, idx)
	if opErr != nil {
		return nil, call.Errorf(opErr.kind, "%s", opErr.message)
	}
	return concat(l.Elements[:i], l.Elements[i+1:]...), nil
}
