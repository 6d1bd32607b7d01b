// Package log provides structured logging for the botlang tool chain.
//
// Package: log
// Title: Botlang Structured Logging
// Description: Structured logger with levels, contextual fields, run IDs and
//              JSON/text/console/logfmt output. Loggers are immutable: every
//              With* call returns a configured copy, so a logger can be handed
//              to the engine, the CLI and the decision server without
//              coordination.
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
//	import botlog "github.com/msto63/botlang/foundation/core/log"
//
//	logger := botlog.New().
//	  WithLevel(botlog.LevelDebug).
//	  WithFormat(botlog.FormatText).
//	  WithField("component", "engine").
//	  WithRunID(runID)
//
//	logger.Info("script finished", botlog.Fields{"filename": "bot.bl"})
//
//	timer := logger.StartTimer("evaluate")
//	// ... evaluate
//	timer.Stop()
package log
