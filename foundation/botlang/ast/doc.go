// File: doc.go
// Title: Botlang AST Package Documentation
// Description: Source positions, tokens and the closed set of syntax tree
//              nodes produced by the botlang parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial AST package

/*
Package ast defines the building blocks shared by the botlang lexer, parser
and interpreter.

# Positions

A Position marks a rune offset in a named source text together with its
1-based line and column. Positions are plain values; copying one freezes it.
Token and node spans are half-open: End points just past the last rune.

# Nodes

Node is a sealed interface. The variant set is fixed:

	NumberNode, StringNode, ListNode, VarAccessNode, VarAssignNode,
	BinOpNode, UnaryOpNode, IfNode, FuncDefNode, CallNode, ReturnNode,
	WhileNode, ForNode, ContinueNode, BreakNode

Nodes compute their span once in their constructor and are never modified
afterwards, so a parsed program can be shared between goroutines that each
evaluate it in their own environment.

# Tooling

Export converts a node tree into plain maps suitable for encoding/json or
yaml.v3, and Walk visits a tree in pre-order.
*/
package ast
