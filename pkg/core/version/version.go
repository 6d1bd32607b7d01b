// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     version
// Description: Central version management for the toolkit
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for the toolkit components
const (
	// Toolkit version
	Platform = "0.1.0"

	// Language version understood by the interpreter
	Language = "1.0.0"

	// Component versions
	CLI     = "0.1.0"
	Server  = "0.1.0"
	Journal = "0.1.0"
	REPL    = "0.1.0"
)

// Commit is set at build time with -ldflags "-X ...version.Commit=<sha>"
var Commit = "dev"

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "language":
		return Language
	case "cli":
		return CLI
	case "server":
		return Server
	case "journal":
		return Journal
	case "repl":
		return REPL
	default:
		return Platform
	}
}

// String returns the full version line printed by the CLI
func String() string {
	return fmt.Sprintf("botlang %s (language %s, commit %s, %s %s/%s)",
		Platform, Language, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
