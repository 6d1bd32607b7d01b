// File: position.go
// Title: Source Positions
// Description: Rune based source positions with line and column tracking.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package ast

import "fmt"

// Position represents a location in a source text
type Position struct {
	Index    int    // Rune offset (0-based)
	Line     int    // Line number (1-based)
	Column   int    // Column number (1-based)
	Filename string // Name used in diagnostics
	Text     string // Complete source text, kept for diagnostics
}

// NewPosition returns the position of the first rune of text
func NewPosition(filename, text string) Position {
	return Position{Index: 0, Line: 1, Column: 1, Filename: filename, Text: text}
}

// Advance returns the position after consuming r
func (p Position) Advance(r rune) Position {
	p.Index++
	if r == '\n' {
		p.Line++
		p.Column = 1
	} else {
		p.Column++
	}
	return p
}

// Before reports whether p lies strictly before other
func (p Position) Before(other Position) bool {
	return p.Index < other.Index
}

// String returns file:line:col
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
