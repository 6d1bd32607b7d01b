// File: nodes.go
// Title: Botlang AST Node Definitions
// Description: Defines the sealed set of syntax tree nodes. Every node
//              derives its span once at construction time.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial AST node definitions

package ast

import "fmt"

// NodeKind identifies a node variant
type NodeKind int

const (
	KindNumber NodeKind = iota
	KindString
	KindList
	KindVarAccess
	KindVarAssign
	KindBinOp
	KindUnaryOp
	KindIf
	KindFuncDef
	KindCall
	KindReturn
	KindWhile
	KindFor
	KindContinue
	KindBreak
)

var nodeKindLabels = [...]string{
	KindNumber:    "NumberNode",
	KindString:    "StringNode",
	KindList:      "ListNode",
	KindVarAccess: "VarAccessNode",
	KindVarAssign: "VarAssignNode",
	KindBinOp:     "BinOpNode",
	KindUnaryOp:   "UnaryOpNode",
	KindIf:        "IfNode",
	KindFuncDef:   "FuncDefNode",
	KindCall:      "CallNode",
	KindReturn:    "ReturnNode",
	KindWhile:     "WhileNode",
	KindFor:       "ForNode",
	KindContinue:  "ContinueNode",
	KindBreak:     "BreakNode",
}

// String returns the export label of the kind
func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindLabels) {
		return nodeKindLabels[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node represents the base interface for all AST nodes
type Node interface {
	Kind() NodeKind
	Start() Position
	End() Position

	sealed()
}

// span is embedded by every node and seals the interface
type span struct {
	start, end Position
}

func (s span) Start() Position { return s.start }
func (s span) End() Position   { return s.end }
func (span) sealed()           {}

// NumberNode is a numeric literal
type NumberNode struct {
	span
	Tok   Token
	Value float64
}

// NewNumberNode creates a number literal from its token and parsed value
func NewNumberNode(tok Token, value float64) *NumberNode {
	return &NumberNode{span: span{tok.Start, tok.End}, Tok: tok, Value: value}
}

func (*NumberNode) Kind() NodeKind { return KindNumber }

// StringNode is a string literal; Tok.Value holds the unescaped text
type StringNode struct {
	span
	Tok Token
}

// NewStringNode creates a string literal
func NewStringNode(tok Token) *StringNode {
	return &StringNode{span: span{tok.Start, tok.End}, Tok: tok}
}

func (*StringNode) Kind() NodeKind { return KindString }

// ListNode is a list literal or a sequence of statements
type ListNode struct {
	span
	Elements []Node
}

// NewListNode creates a list spanning start to end
func NewListNode(elements []Node, start, end Position) *ListNode {
	return &ListNode{span: span{start, end}, Elements: elements}
}

func (*ListNode) Kind() NodeKind { return KindList }

// VarAccessNode reads a variable, sensor or action constant
type VarAccessNode struct {
	span
	Name Token
}

// NewVarAccessNode creates a variable access
func NewVarAccessNode(name Token) *VarAccessNode {
	return &VarAccessNode{span: span{name.Start, name.End}, Name: name}
}

func (*VarAccessNode) Kind() NodeKind { return KindVarAccess }

// VarAssignNode binds a value in the current scope
type VarAssignNode struct {
	span
	Name  Token
	Value Node
}

// NewVarAssignNode creates an assignment
func NewVarAssignNode(name Token, value Node) *VarAssignNode {
	return &VarAssignNode{span: span{name.Start, value.End()}, Name: name, Value: value}
}

func (*VarAssignNode) Kind() NodeKind { return KindVarAssign }

// BinOpNode applies a binary operator
type BinOpNode struct {
	span
	Left  Node
	Op    Token
	Right Node
}

// NewBinOpNode creates a binary operation
func NewBinOpNode(left Node, op Token, right Node) *BinOpNode {
	return &BinOpNode{span: span{left.Start(), right.End()}, Left: left, Op: op, Right: right}
}

func (*BinOpNode) Kind() NodeKind { return KindBinOp }

// UnaryOpNode applies a prefix operator
type UnaryOpNode struct {
	span
	Op      Token
	Operand Node
}

// NewUnaryOpNode creates a unary operation
func NewUnaryOpNode(op Token, operand Node) *UnaryOpNode {
	return &UnaryOpNode{span: span{op.Start, operand.End()}, Op: op, Operand: operand}
}

func (*UnaryOpNode) Kind() NodeKind { return KindUnaryOp }

// IfCase is one "if" or "elif" arm
type IfCase struct {
	Condition        Node
	Body             Node
	ShouldReturnNull bool // true for block bodies
}

// ElseCase is the trailing "else" arm
type ElseCase struct {
	Body             Node
	ShouldReturnNull bool
}

// IfNode is a conditional chain. Cases is never empty.
type IfNode struct {
	span
	Cases []IfCase
	Else  *ElseCase
}

// NewIfNode creates a conditional chain
func NewIfNode(cases []IfCase, elseCase *ElseCase) *IfNode {
	end := cases[len(cases)-1].Body.End()
	if elseCase != nil {
		end = elseCase.Body.End()
	}
	return &IfNode{span: span{cases[0].Condition.Start(), end}, Cases: cases, Else: elseCase}
}

func (*IfNode) Kind() NodeKind { return KindIf }

// FuncDefNode defines a named or anonymous function
type FuncDefNode struct {
	span
	Name             *Token // nil for anonymous functions
	Params           []Token
	Body             Node
	ShouldAutoReturn bool // true for "-> expr" bodies
}

// NewFuncDefNode creates a function definition
func NewFuncDefNode(name *Token, params []Token, body Node, autoReturn bool) *FuncDefNode {
	start := body.Start()
	switch {
	case name != nil:
		start = name.Start
	case len(params) > 0:
		start = params[0].Start
	}
	return &FuncDefNode{
		span:             span{start, body.End()},
		Name:             name,
		Params:           params,
		Body:             body,
		ShouldAutoReturn: autoReturn,
	}
}

func (*FuncDefNode) Kind() NodeKind { return KindFuncDef }

// FuncName returns the declared name or "<anonymous>"
func (n *FuncDefNode) FuncName() string {
	if n.Name == nil {
		return "<anonymous>"
	}
	return n.Name.Value
}

// CallNode calls a function value
type CallNode struct {
	span
	Callee Node
	Args   []Node
}

// NewCallNode creates a call ending at the closing parenthesis
func NewCallNode(callee Node, args []Node, rparen Token) *CallNode {
	return &CallNode{span: span{callee.Start(), rparen.End}, Callee: callee, Args: args}
}

func (*CallNode) Kind() NodeKind { return KindCall }

// ReturnNode leaves the enclosing function. Value may be nil.
type ReturnNode struct {
	span
	Value Node
}

// NewReturnNode creates a return statement
func NewReturnNode(value Node, start, end Position) *ReturnNode {
	return &ReturnNode{span: span{start, end}, Value: value}
}

func (*ReturnNode) Kind() NodeKind { return KindReturn }

// WhileNode repeats Body while Condition is truthy
type WhileNode struct {
	span
	Condition        Node
	Body             Node
	ShouldReturnNull bool
}

// NewWhileNode creates a while loop
func NewWhileNode(condition, body Node, returnNull bool) *WhileNode {
	return &WhileNode{
		span:             span{condition.Start(), body.End()},
		Condition:        condition,
		Body:             body,
		ShouldReturnNull: returnNull,
	}
}

func (*WhileNode) Kind() NodeKind { return KindWhile }

// ForNode counts Var from From to To (exclusive) by Step
type ForNode struct {
	span
	Var              Token
	From             Node
	To               Node
	Step             Node // nil means 1
	Body             Node
	ShouldReturnNull bool
}

// NewForNode creates a counting loop
func NewForNode(variable Token, from, to, step, body Node, returnNull bool) *ForNode {
	return &ForNode{
		span:             span{variable.Start, body.End()},
		Var:              variable,
		From:             from,
		To:               to,
		Step:             step,
		Body:             body,
		ShouldReturnNull: returnNull,
	}
}

func (*ForNode) Kind() NodeKind { return KindFor }

// ContinueNode skips to the next loop iteration
type ContinueNode struct {
	span
}

// NewContinueNode creates a continue statement
func NewContinueNode(start, end Position) *ContinueNode {
	return &ContinueNode{span: span{start, end}}
}

func (*ContinueNode) Kind() NodeKind { return KindContinue }

// BreakNode leaves the nearest loop
type BreakNode struct {
	span
}

// NewBreakNode creates a break statement
func NewBreakNode(start, end Position) *BreakNode {
	return &BreakNode{span: span{start, end}}
}

func (*BreakNode) Kind() NodeKind { return KindBreak }
