// File: result.go
// Title: Evaluation Results
// Description: Values paired with control flow signals.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package interpreter

// Signal marks a pending control transfer
type Signal int

const (
	SignalNone Signal = iota
	SignalReturn
	SignalContinue
	SignalBreak
)

// String returns the signal name
func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalReturn:
		return "return"
	case SignalContinue:
		return "continue"
	case SignalBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Result is the outcome of evaluating a node. A result carrying a signal
// must be passed upward unchanged until a function call (return) or a
// loop (continue, break) absorbs it.
type Result struct {
	Value  Value
	Signal Signal
}

// Interrupted reports whether a signal is pending
func (r Result) Interrupted() bool {
	return r.Signal != SignalNone
}

func value(v Value) (Result, error) {
	return Result{Value: v}, nil
}
