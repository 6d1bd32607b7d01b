// File: stringx.go
// Title: Core String Utility Functions
// Description: Implements the string operations used across botlang:
//              blank checks, left padding and line splitting.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation with core utilities

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// PadLeft pads s to width runes with the given pad character.
// If the string is already longer than width, it returns the original string.
func PadLeft(s string, width int, pad rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(string(pad), width-n) + s
}

// SplitLines splits a string into lines, handling \n, \r\n, and \r endings.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Line returns the 1-based line n of s without its terminator, or "" when
// s has fewer lines.
func Line(s string, n int) string {
	lines := SplitLines(s)
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
