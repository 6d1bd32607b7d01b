// File: token.go
// Title: Lexical Tokens
// Description: Token types and the immutable Token value emitted by the
//              lexer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	NEWLINE

	// Literals and names
	NUMBER
	STRING
	IDENTIFIER
	SENSOR // _FRONT_NEIGHBOR
	ACTION // $ATTACK
	KEYWORD

	// Operators
	PLUS     // +
	MINUS    // -
	MUL      // *
	DIV      // /
	POW      // ^
	MOD      // %
	EE       // ==
	NE       // !=
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=
	EQ       // =
	ARROW    // ->
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
	COLON    // :
)

var tokenTypeNames = [...]string{
	EOF:        "EOF",
	NEWLINE:    "NEWLINE",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	IDENTIFIER: "IDENTIFIER",
	SENSOR:     "SENSOR",
	ACTION:     "ACTION",
	KEYWORD:    "KEYWORD",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MUL:        "MUL",
	DIV:        "DIV",
	POW:        "POW",
	MOD:        "MOD",
	EE:         "EE",
	NE:         "NE",
	LT:         "LT",
	GT:         "GT",
	LTE:        "LTE",
	GTE:        "GTE",
	EQ:         "EQ",
	ARROW:      "ARROW",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	COMMA:      "COMMA",
	COLON:      "COLON",
}

// String returns the token type name
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Keywords recognised by the lexer. Keyword token values are always stored
// in lower case.
var Keywords = map[string]bool{
	"def": true, "if": true, "elif": true, "else": true, "then": true,
	"end": true, "return": true, "and": true, "or": true, "not": true,
	"true": true, "false": true, "null": true, "var": true, "while": true,
	"for": true, "to": true, "step": true, "continue": true, "break": true,
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string   // Literal text; unescaped for strings, lower case for keywords
	Start Position // First rune
	End   Position // Just past the last rune
}

// Is reports whether the token has the given type
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

// Matches reports whether the token has the given type and value
func (t Token) Matches(tt TokenType, value string) bool {
	return t.Type == tt && t.Value == value
}

// IsKeyword reports whether the token is the given keyword
func (t Token) IsKeyword(value string) bool {
	return t.Matches(KEYWORD, value)
}

// String returns TYPE or TYPE(value)
func (t Token) String() string {
	switch t.Type {
	case NUMBER, IDENTIFIER, SENSOR, ACTION, KEYWORD:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	case STRING:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}
