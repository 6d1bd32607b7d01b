// File: export.go
// Title: Structural AST Export
// Description: Converts tokens and nodes into plain maps that encode
//              cleanly as JSON or YAML.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

import "fmt"

// ExportPosition converts a position into a map
func ExportPosition(p Position) map[string]any {
	return map[string]any{
		"index":  p.Index,
		"line":   p.Line,
		"column": p.Column,
	}
}

// ExportToken converts a token into {type, value, pos_start, pos_end}
func ExportToken(tok Token) map[string]any {
	return map[string]any{
		"type":      tok.Type.String(),
		"value":     tok.Value,
		"pos_start": ExportPosition(tok.Start),
		"pos_end":   ExportPosition(tok.End),
	}
}

// ExportTokens converts a token stream
func ExportTokens(tokens []Token) []any {
	out := make([]any, len(tokens))
	for i, tok := range tokens {
		out[i] = ExportToken(tok)
	}
	return out
}

// Export converts a node tree into nested maps. Every map carries a "type"
// key holding the node kind label. A nil node exports as nil.
func Export(node Node) map[string]any {
	if node == nil {
		return nil
	}

	out := map[string]any{"type": node.Kind().String()}
	switch n := node.(type) {
	case *NumberNode:
		out["tok"] = ExportToken(n.Tok)
	case *StringNode:
		out["tok"] = ExportToken(n.Tok)
	case *ListNode:
		out["element_nodes"] = exportNodes(n.Elements)
		out["pos_start"] = ExportPosition(n.Start())
		out["pos_end"] = ExportPosition(n.End())
	case *VarAccessNode:
		out["var_name_tok"] = ExportToken(n.Name)
	case *VarAssignNode:
		out["var_name_tok"] = ExportToken(n.Name)
		out["value_node"] = Export(n.Value)
	case *BinOpNode:
		out["left_node"] = Export(n.Left)
		out["op_tok"] = ExportToken(n.Op)
		out["right_node"] = Export(n.Right)
	case *UnaryOpNode:
		out["op_tok"] = ExportToken(n.Op)
		out["node"] = Export(n.Operand)
	case *IfNode:
		cases := make([]any, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = map[string]any{
				"condition":          Export(c.Condition),
				"expr":               Export(c.Body),
				"should_return_null": c.ShouldReturnNull,
			}
		}
		out["cases"] = cases
		if n.Else != nil {
			out["else_case"] = map[string]any{
				"expr":               Export(n.Else.Body),
				"should_return_null": n.Else.ShouldReturnNull,
			}
		} else {
			out["else_case"] = nil
		}
	case *FuncDefNode:
		if n.Name != nil {
			out["var_name_tok"] = ExportToken(*n.Name)
		} else {
			out["var_name_tok"] = nil
		}
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = ExportToken(p)
		}
		out["arg_name_toks"] = params
		out["body_node"] = Export(n.Body)
		out["should_auto_return"] = n.ShouldAutoReturn
	case *CallNode:
		out["node_to_call"] = Export(n.Callee)
		out["arg_nodes"] = exportNodes(n.Args)
	case *ReturnNode:
		if n.Value != nil {
			out["node_to_return"] = Export(n.Value)
		} else {
			out["node_to_return"] = nil
		}
		out["pos_start"] = ExportPosition(n.Start())
		out["pos_end"] = ExportPosition(n.End())
	case *WhileNode:
		out["condition_node"] = Export(n.Condition)
		out["body_node"] = Export(n.Body)
		out["should_return_null"] = n.ShouldReturnNull
	case *ForNode:
		out["var_name_tok"] = ExportToken(n.Var)
		out["start_value_node"] = Export(n.From)
		out["end_value_node"] = Export(n.To)
		if n.Step != nil {
			out["step_value_node"] = Export(n.Step)
		} else {
			out["step_value_node"] = nil
		}
		out["body_node"] = Export(n.Body)
		out["should_return_null"] = n.ShouldReturnNull
	case *ContinueNode, *BreakNode:
		out["pos_start"] = ExportPosition(n.Start())
		out["pos_end"] = ExportPosition(n.End())
	default:
		panic(fmt.Sprintf("ast: unhandled node kind %s", node.Kind()))
	}
	return out
}

func exportNodes(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = Export(n)
	}
	return out
}
