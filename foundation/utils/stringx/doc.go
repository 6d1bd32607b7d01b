// File: doc.go
// Title: String Utilities Package Documentation
// Description: Small Unicode-aware string helpers shared by the pipeline,
//              the diagnostics renderer and the command line tools.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package stringx provides Unicode-aware string helpers. All functions count
// runes, never bytes, so that columns in diagnostics line up with what the
// lexer reports.
package stringx
