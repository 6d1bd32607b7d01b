// Package error provides structured errors for the botlang tool chain.
//
// Package: error
// Title: Botlang Error Handling
// Description: Structured error values with codes, severities, operations and
//              details. Pipeline diagnostics map onto the BOTLANG_* codes so
//              that the CLI, the decision server and the run journal can
//              classify failures without inspecting message text.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Usage:
//
//	import boterror "github.com/msto63/botlang/foundation/core/error"
//
//	err := boterror.Wrap(ioErr, "cannot read script").
//	  WithCode(boterror.CodeNotFound).
//	  WithOperation("cli.run").
//	  WithDetail("path", path)
//
//	if boterror.HasCode(err, boterror.CodeNotFound) {
//	  // ...
//	}
package error
