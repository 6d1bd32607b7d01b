// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     logging
// Description: Component log levels for per-subsystem overrides
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"strings"

	boterror "github.com/msto63/botlang/foundation/core/error"
)

// Level is the severity threshold of a component logger. It is narrower
// than the foundation level set: components only choose between these four.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// ParseLevel reads a level name such as "warn" from configuration
func ParseLevel(name string) (Level, error) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LevelInfo, boterror.Newf("unknown log level %q", name).
			WithCode(boterror.CodeInvalidInput).
			WithOperation("logging.ParseLevel")
	}
	return level, nil
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}
