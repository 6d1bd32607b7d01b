// File: doc.go
// Title: Botlang Interpreter Package Documentation
// Description: Tree walking evaluation of botlang programs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial interpreter package

/*
Package interpreter evaluates botlang syntax trees.

Values are Number, String, List, Null, Action, Function and Builtin.
Booleans are the numbers 0 and 1; 0, "", [] and null are falsy.

Evaluation returns a Result and an error. return, continue and break do
not unwind the Go stack: they travel upward as Result.Signal until the
nearest function call or loop absorbs them. Runtime errors are *diag.Error
values positioned at the failing node and carry the call trace.

A run starts from NewRootEnvironment, which binds the built-in functions,
the action constants $ATTACK, $MOVE, $TURN_LEFT, $TURN_RIGHT and $IDLE,
and the sensors provided by the host:

	env := interpreter.NewRootEnvironment(interpreter.Sensors{
		"_FRONT_NEIGHBOR": interpreter.String("ENEMY"),
	})
	result, err := interpreter.New(interpreter.Options{}).Execute(program, env)
*/
package interpreter
