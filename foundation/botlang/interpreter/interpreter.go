// File: interpreter.go
// Title: Botlang Tree Walking Interpreter
// Description: Evaluates AST nodes against lexical environments. Control
//              flow travels as Result signals; runtime errors are returned
//              as positioned diagnostics carrying the active call trace.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial interpreter implementation

package interpreter

import (
	"context"
	"io"

	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/diag"
)

// DefaultMaxCallDepth bounds nested function calls
const DefaultMaxCallDepth = 512

// Options configures an interpreter
type Options struct {
	Output       io.Writer       // Destination of print; io.Discard when nil
	MaxCallDepth int             // DefaultMaxCallDepth when zero
	Context      context.Context // Checked on every call and loop iteration
}

// Interpreter evaluates programs. It is not safe for concurrent use; the
// AST it evaluates may be shared.
type Interpreter struct {
	output   io.Writer
	maxDepth int
	ctx      context.Context
	trace    []diag.Frame
}

// New creates an interpreter with the given options
func New(opts Options) *Interpreter {
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return &Interpreter{
		output:   opts.Output,
		maxDepth: opts.MaxCallDepth,
		ctx:      opts.Context,
	}
}

// Execute evaluates a program. The result is the value of a top-level
// return if one fired, otherwise the list of all statement values.
func (in *Interpreter) Execute(program *ast.ListNode, env *Environment) (Value, error) {
	in.trace = in.trace[:0]
	res, err := in.Eval(program, env)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Eval evaluates a single node
func (in *Interpreter) Eval(node ast.Node, env *Environment) (Result, error) {
	switch n := node.(type) {
	case *ast.NumberNode:
		return value(Number(n.Value))
	case *ast.StringNode:
		return value(String(n.Tok.Value))
	case *ast.ListNode:
		return in.evalList(n, env)
	case *ast.VarAccessNode:
		return in.evalVarAccess(n, env)
	case *ast.VarAssignNode:
		res, err := in.Eval(n.Value, env)
		if err != nil || res.Interrupted() {
			return res, err
		}
		env.Set(n.Name.Value, res.Value)
		return res, nil
	case *ast.BinOpNode:
		return in.evalBinOp(n, env)
	case *ast.UnaryOpNode:
		return in.evalUnaryOp(n, env)
	case *ast.IfNode:
		return in.evalIf(n, env)
	case *ast.FuncDefNode:
		return in.evalFuncDef(n, env)
	case *ast.CallNode:
		return in.evalCall(n, env)
	case *ast.ReturnNode:
		if n.Value == nil {
			return Result{Value: Null{}, Signal: SignalReturn}, nil
		}
		res, err := in.Eval(n.Value, env)
		if err != nil || res.Interrupted() {
			return res, err
		}
		return Result{Value: res.Value, Signal: SignalReturn}, nil
	case *ast.ContinueNode:
		return Result{Value: Null{}, Signal: SignalContinue}, nil
	case *ast.BreakNode:
		return Result{Value: Null{}, Signal: SignalBreak}, nil
	case *ast.WhileNode:
		return in.evalWhile(n, env)
	case *ast.ForNode:
		return in.evalFor(n, env)
	default:
		return Result{}, boterror.Newf("no evaluation rule for %T", node).
			WithCode(boterror.CodeInternal).
			WithOperation("interpreter.Eval")
	}
}

// fail creates a runtime error spanning node
func (in *Interpreter) fail(kind diag.Kind, node ast.Node, format string, args ...interface{}) error {
	return diag.Newf(kind, node.Start(), node.End(), format, args...).WithTrace(in.trace)
}

func (in *Interpreter) cancelled() error {
	if err := in.ctx.Err(); err != nil {
		return boterror.Wrap(err, "evaluation cancelled").
			WithCode(boterror.CodeTimeout).
			WithOperation("interpreter.Eval")
	}
	return nil
}

func (in *Interpreter) evalList(n *ast.ListNode, env *Environment) (Result, error) {
	values := make([]Value, 0, len(n.Elements))
	for _, element := range n.Elements {
		res, err := in.Eval(element, env)
		if err != nil || res.Interrupted() {
			return res, err
		}
		values = append(values, res.Value)
	}
	return value(List{Elements: values})
}

func (in *Interpreter) evalVarAccess(n *ast.VarAccessNode, env *Environment) (Result, error) {
	name := n.Name
	if name.Type == ast.KEYWORD {
		switch name.Value {
		case "true":
			return value(Number(1))
		case "false":
			return value(Number(0))
		default:
			return value(Null{})
		}
	}

	if v, ok := env.Get(name.Value); ok {
		return value(v)
	}
	switch name.Type {
	case ast.SENSOR:
		return Result{}, in.fail(diag.UndefinedName, n, "sensor %s is not provided by the host", name.Value)
	case ast.ACTION:
		return Result{}, in.fail(diag.UndefinedName, n, "unknown action %s", name.Value)
	default:
		return Result{}, in.fail(diag.UndefinedName, n, "'%s' is not defined", name.Value)
	}
}

func (in *Interpreter) evalBinOp(n *ast.BinOpNode, env *Environment) (Result, error) {
	left, err := in.Eval(n.Left, env)
	if err != nil || left.Interrupted() {
		return left, err
	}

	// and/or never evaluate their right operand once the left one decides
	switch {
	case n.Op.IsKeyword("and") && !Truthy(left.Value):
		return value(Number(0))
	case n.Op.IsKeyword("or") && Truthy(left.Value):
		return value(Number(1))
	}

	right, err := in.Eval(n.Right, env)
	if err != nil || right.Interrupted() {
		return right, err
	}
	if n.Op.IsKeyword("and") || n.Op.IsKeyword("or") {
		return value(Bool(Truthy(right.Value)))
	}

	v, opErr := binary(n.Op.Type, left.Value, right.Value)
	if opErr != nil {
		return Result{}, in.fail(opErr.kind, n, "%s", opErr.message)
	}
	return value(v)
}

func (in *Interpreter) evalUnaryOp(n *ast.UnaryOpNode, env *Environment) (Result, error) {
	res, err := in.Eval(n.Operand, env)
	if err != nil || res.Interrupted() {
		return res, err
	}

	if n.Op.IsKeyword("not") {
		return value(Bool(!Truthy(res.Value)))
	}
	num, ok := res.Value.(Number)
	if !ok {
		return Result{}, in.fail(diag.TypeMismatch, n, "bad operand type for unary %s: %s", n.Op.Value, res.Value.TypeName())
	}
	if n.Op.Is(ast.MINUS) {
		return value(-num)
	}
	return value(num)
}

func (in *Interpreter) evalIf(n *ast.IfNode, env *Environment) (Result, error) {
	for _, c := range n.Cases {
		cond, err := in.Eval(c.Condition, env)
		if err != nil || cond.Interrupted() {
			return cond, err
		}
		if Truthy(cond.Value) {
			return in.evalBranch(c.Body, c.ShouldReturnNull, env)
		}
	}
	if n.Else != nil {
		return in.evalBranch(n.Else.Body, n.Else.ShouldReturnNull, env)
	}
	return value(Null{})
}

func (in *Interpreter) evalBranch(body ast.Node, returnNull bool, env *Environment) (Result, error) {
	res, err := in.Eval(body, env)
	if err != nil || res.Interrupted() {
		return res, err
	}
	if returnNull {
		return value(Null{})
	}
	return res, nil
}

func (in *Interpreter) evalFuncDef(n *ast.FuncDefNode, env *Environment) (Result, error) {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Value
	}
	fn := &Function{
		Name:       n.FuncName(),
		Params:     params,
		Body:       n.Body,
		AutoReturn: n.ShouldAutoReturn,
		Env:        env,
	}
	if n.Name != nil {
		env.Set(n.Name.Value, fn)
	}
	return value(fn)
}

func (in *Interpreter) evalCall(n *ast.CallNode, env *Environment) (Result, error) {
	callee, err := in.Eval(n.Callee, env)
	if err != nil || callee.Interrupted() {
		return callee, err
	}

	args := make([]Value, 0, len(n.Args))
	for _, argNode := range n.Args {
		arg, err := in.Eval(argNode, env)
		if err != nil || arg.Interrupted() {
			return arg, err
		}
		args = append(args, arg.Value)
	}

	v, err := in.call(n, callee.Value, args)
	if err != nil {
		return Result{}, err
	}
	return value(v)
}

// call invokes fn with evaluated arguments; errors are positioned at node
func (in *Interpreter) call(node ast.Node, fn Value, args []Value) (Value, error) {
	if err := in.cancelled(); err != nil {
		return nil, err
	}

	switch f := fn.(type) {
	case *Builtin:
		if f.Arity >= 0 && len(args) != f.Arity {
			return nil, in.fail(diag.ArityMismatch, node, "%s() takes %d argument(s), got %d", f.Name, f.Arity, len(args))
		}
		return f.Fn(&CallContext{in: in, node: node}, args)
	case *Function:
		if len(args) != len(f.Params) {
			return nil, in.fail(diag.ArityMismatch, node, "%s() takes %d argument(s), got %d", f.Name, len(f.Params), len(args))
		}
		if len(in.trace) >= in.maxDepth {
			return nil, in.fail(diag.RecursionLimit, node, "maximum call depth of %d exceeded", in.maxDepth)
		}

		in.trace = append(in.trace, diag.Frame{Name: f.Name, Call: node.Start()})
		defer func() { in.trace = in.trace[:len(in.trace)-1] }()

		scope := NewEnvironment(f.Env)
		for i, name := range f.Params {
			scope.Set(name, args[i])
		}

		res, err := in.Eval(f.Body, scope)
		if err != nil {
			return nil, err
		}
		if f.AutoReturn || res.Signal == SignalReturn {
			return res.Value, nil
		}
		return Null{}, nil
	default:
		return nil, in.fail(diag.NotCallable, node, "%s is not callable", fn.TypeName())
	}
}

// loopStep evaluates one loop body; stop reports that the loop must end
// and done carries a result that must be returned as is
func (in *Interpreter) loopStep(body ast.Node, env *Environment, values *[]Value) (stop bool, done *Result, err error) {
	if err := in.cancelled(); err != nil {
		return true, nil, err
	}
	res, err := in.Eval(body, env)
	if err != nil {
		return true, nil, err
	}
	switch res.Signal {
	case SignalReturn:
		return true, &res, nil
	case SignalBreak:
		return true, nil, nil
	case SignalContinue:
		return false, nil, nil
	}
	*values = append(*values, res.Value)
	return false, nil, nil
}

func loopResult(values []Value, returnNull bool) (Result, error) {
	if returnNull {
		return value(Null{})
	}
	return value(List{Elements: values})
}

func (in *Interpreter) evalWhile(n *ast.WhileNode, env *Environment) (Result, error) {
	var values []Value
	for {
		cond, err := in.Eval(n.Condition, env)
		if err != nil || cond.Interrupted() {
			return cond, err
		}
		if !Truthy(cond.Value) {
			break
		}
		stop, done, err := in.loopStep(n.Body, env, &values)
		if err != nil {
			return Result{}, err
		}
		if done != nil {
			return *done, nil
		}
		if stop {
			break
		}
	}
	return loopResult(values, n.ShouldReturnNull)
}

func (in *Interpreter) evalFor(n *ast.ForNode, env *Environment) (Result, error) {
	bound := func(node ast.Node, what string) (Number, *Result, error) {
		res, err := in.Eval(node, env)
		if err != nil || res.Interrupted() {
			return 0, &res, err
		}
		num, ok := res.Value.(Number)
		if !ok {
			return 0, nil, in.fail(diag.TypeMismatch, node, "for %s must be a number, got %s", what, res.Value.TypeName())
		}
		return num, nil, nil
	}

	from, early, err := bound(n.From, "start")
	if err != nil || early != nil {
		return earlyResult(early), err
	}
	to, early, err := bound(n.To, "end")
	if err != nil || early != nil {
		return earlyResult(early), err
	}
	step := Number(1)
	if n.Step != nil {
		if step, early, err = bound(n.Step, "step"); err != nil || early != nil {
			return earlyResult(early), err
		}
		if step == 0 {
			return Result{}, in.fail(diag.TypeMismatch, n.Step, "for step must not be zero")
		}
	}

	var values []Value
	for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
		env.Set(n.Var.Value, i)
		stop, done, err := in.loopStep(n.Body, env, &values)
		if err != nil {
			return Result{}, err
		}
		if done != nil {
			return *done, nil
		}
		if stop {
			break
		}
	}
	return loopResult(values, n.ShouldReturnNull)
}

func earlyResult(r *Result) Result {
	if r == nil {
		return Result{}
	}
	return *r
}

// CallContext is handed to built-in functions
type CallContext struct {
	in   *Interpreter
	node ast.Node
}

// Output returns the print destination
func (c *CallContext) Output() io.Writer {
	return c.in.output
}

// Errorf creates a runtime error positioned at the call
func (c *CallContext) Errorf(kind diag.Kind, format string, args ...interface{}) error {
	return c.in.fail(kind, c.node, format, args...)
}

// Call invokes a callable value from a built-in
func (c *CallContext) Call(fn Value, args ...Value) (Value, error) {
	return c.in.call(c.node, fn, args)
}
