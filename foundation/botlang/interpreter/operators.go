// File: operators.go
// Title: Binary Operators
// Description: Arithmetic, comparison, string, and list operators on runtime
//              values.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package interpreter

import (
	"fmt"
	"math"
	"strings"

	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/diag"
)

// opError is an operator failure that the interpreter positions
type opError struct {
	kind    diag.Kind
	message string
}

var opSymbols = map[ast.TokenType]string{
	ast.PLUS: "+", ast.MINUS: "-", ast.MUL: "*", ast.DIV: "/", ast.POW: "^",
	ast.MOD: "%", ast.EE: "==", ast.NE: "!=", ast.LT: "<", ast.GT: ">",
	ast.LTE: "<=", ast.GTE: ">=",
}

func mismatch(op ast.TokenType, l, r Value) *opError {
	return &opError{
		kind:    diag.TypeMismatch,
		message: fmt.Sprintf("unsupported operand types for %s: %s and %s", opSymbols[op], l.TypeName(), r.TypeName()),
	}
}

// binary applies every operator except and/or
func binary(op ast.TokenType, l, r Value) (Value, *opError) {
	switch op {
	case ast.EE:
		return Bool(Equal(l, r)), nil
	case ast.NE:
		return Bool(!Equal(l, r)), nil
	}

	ln, lok := l.(Number)
	rn, rok := r.(Number)
	if lok && rok {
		return numeric(op, ln, rn)
	}

	switch lv := l.(type) {
	case String:
		return stringOp(op, lv, r)
	case List:
		return listOp(op, lv, r)
	}
	return nil, mismatch(op, l, r)
}

func numeric(op ast.TokenType, l, r Number) (Value, *opError) {
	switch op {
	case ast.PLUS:
		return l + r, nil
	case ast.MINUS:
		return l - r, nil
	case ast.MUL:
		return l * r, nil
	case ast.DIV:
		if r == 0 {
			return nil, &opError{diag.DivisionByZero, "division by zero"}
		}
		return l / r, nil
	case ast.MOD:
		if r == 0 {
			return nil, &opError{diag.DivisionByZero, "modulo by zero"}
		}
		return Number(math.Mod(float64(l), float64(r))), nil
	case ast.POW:
		return Number(math.Pow(float64(l), float64(r))), nil
	case ast.LT:
		return Bool(l < r), nil
	case ast.GT:
		return Bool(l > r), nil
	case ast.LTE:
		return Bool(l <= r), nil
	case ast.GTE:
		return Bool(l >= r), nil
	}
	return nil, mismatch(op, l, r)
}

func stringOp(op ast.TokenType, l String, r Value) (Value, *opError) {
	switch rv := r.(type) {
	case String:
		switch op {
		case ast.PLUS:
			return l + rv, nil
		case ast.LT:
			return Bool(l < rv), nil
		case ast.GT:
			return Bool(l > rv), nil
		case ast.LTE:
			return Bool(l <= rv), nil
		case ast.GTE:
			return Bool(l >= rv), nil
		}
	case Number:
		if op == ast.MUL {
			return repeat(l, rv)
		}
	}
	return nil, mismatch(op, l, r)
}

// maxRepeatLen bounds the byte length of a repeated string
const maxRepeatLen = 1 << 20

func repeat(s String, count Number) (Value, *opError) {
	if count != Number(math.Trunc(float64(count))) {
		return nil, &opError{diag.TypeMismatch, "string repeat count must be an integer"}
	}
	if count <= 0 || len(s) == 0 {
		return String(""), nil
	}
	if count > Number(maxRepeatLen/len(s)) {
		return nil, &opError{diag.TypeMismatch, fmt.Sprintf("string repeat result exceeds %d bytes", maxRepeatLen)}
	}
	return String(strings.Repeat(string(s), int(count))), nil
}

func listOp(op ast.TokenType, l List, r Value) (Value, *opError) {
	switch op {
	case ast.PLUS:
		if rl, ok := r.(List); ok {
			return concat(l.Elements, rl.Elements...), nil
		}
		return concat(l.Elements, r), nil
	case ast.DIV:
		idx, ok := r.(Number)
		if !ok {
			break
		}
		v, err := index(l, idx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, mismatch(op, l, r)
}

// concat builds a new list without aliasing the inputs
func concat(base []Value, extra ...Value) List {
	out := make([]Value, 0, len(base)+len(extra))
	out = append(out, base...)
	return List{Elements: append(out, extra...)}
}

// resolveIndex maps a possibly negative index onto the list
func resolveIndex(l List, idx Number) (int, *opError) {
	if idx != Number(math.Trunc(float64(idx))) {
		return 0, &opError{diag.TypeMismatch, fmt.Sprintf("list index must be an integer, got %s", idx)}
	}
	i := int(idx)
	if i < 0 {
		i += len(l.Elements)
	}
	if i < 0 || i >= len(l.Elements) {
		return 0, &opError{diag.IndexOutOfRange, fmt.Sprintf("index %s out of range for list of length %d", idx, len(l.Elements))}
	}
	return i, nil
}

func index(l List, idx Number) (Value, *opError) {
	i, err := resolveIndex(l, idx)
	if err != nil {
		return nil, err
	}
	return l.Elements[i], nil
}
