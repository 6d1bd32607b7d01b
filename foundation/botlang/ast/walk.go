// File: walk.go
// Title: AST Traversal
// Description: Pre-order traversal and a collector for names referenced by
//              a program.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

import "sort"

// Children returns the direct children of node in source order
func Children(node Node) []Node {
	switch n := node.(type) {
	case *ListNode:
		return n.Elements
	case *VarAssignNode:
		return []Node{n.Value}
	case *BinOpNode:
		return []Node{n.Left, n.Right}
	case *UnaryOpNode:
		return []Node{n.Operand}
	case *IfNode:
		var out []Node
		for _, c := range n.Cases {
			out = append(out, c.Condition, c.Body)
		}
		if n.Else != nil {
			out = append(out, n.Else.Body)
		}
		return out
	case *FuncDefNode:
		return []Node{n.Body}
	case *CallNode:
		return append([]Node{n.Callee}, n.Args...)
	case *ReturnNode:
		if n.Value != nil {
			return []Node{n.Value}
		}
	case *WhileNode:
		return []Node{n.Condition, n.Body}
	case *ForNode:
		out := []Node{n.From, n.To}
		if n.Step != nil {
			out = append(out, n.Step)
		}
		return append(out, n.Body)
	}
	return nil
}

// Walk visits node and its descendants in pre-order. Returning false from
// fn skips the children of the current node.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// References lists the distinct names a program reads
type References struct {
	Sensors     []string // _NAME
	Actions     []string // $NAME
	Identifiers []string
}

// CollectReferences walks node and gathers every referenced name, sorted
func CollectReferences(node Node) References {
	seen := map[TokenType]map[string]bool{
		SENSOR:     {},
		ACTION:     {},
		IDENTIFIER: {},
	}
	Walk(node, func(n Node) bool {
		if access, ok := n.(*VarAccessNode); ok {
			if names, tracked := seen[access.Name.Type]; tracked {
				names[access.Name.Value] = true
			}
		}
		return true
	})
	return References{
		Sensors:     sortedKeys(seen[SENSOR]),
		Actions:     sortedKeys(seen[ACTION]),
		Identifiers: sortedKeys(seen[IDENTIFIER]),
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
