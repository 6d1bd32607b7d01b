// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     journal
// Description: Audit journal of script runs
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package journal records every script run (source hash, decided action,
// result or error) for later inspection with `botlang history`. Scripts can
// never read the journal; it is written by the host only.
package journal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/botlang/foundation/botlang"
	"github.com/msto63/botlang/foundation/botlang/diag"
	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
)

// Run is one journal entry
type Run struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	Filename   string        `json:"filename"`
	SourceHash string        `json:"source_hash"`
	Action     string        `json:"action,omitempty"`
	Result     string        `json:"result,omitempty"`
	ErrorKind  string        `json:"error_kind,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Failed reports whether the run ended with an error
func (r *Run) Failed() bool {
	return r.Error != ""
}

// Filter defines criteria for querying runs
type Filter struct {
	Filename   string
	Action     string
	ErrorsOnly bool
	Since      time.Time
	Until      time.Time
	Limit      int
	Offset     int
}

// Stats summarizes the journal
type Stats struct {
	Total           int64            `json:"total"`
	Failed          int64            `json:"failed"`
	ByAction        map[string]int64 `json:"by_action"`
	ByErrorKind     map[string]int64 `json:"by_error_kind"`
	AverageDuration time.Duration    `json:"average_duration"`
	LastRun         time.Time        `json:"last_run,omitempty"`
}

// Store defines the interface for run persistence
type Store interface {
	Record(ctx context.Context, run *Run) error
	Query(ctx context.Context, filter Filter) ([]*Run, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// NewRun builds a journal entry from the outcome of a run
func NewRun(filename, source string, started time.Time, result interpreter.Value, err error) *Run {
	run := &Run{
		ID:         newID(),
		StartedAt:  started.UTC(),
		Filename:   filename,
		SourceHash: HashSource(source),
		Duration:   time.Since(started),
	}

	if err != nil {
		run.Error = err.Error()
		if kind, ok := diag.KindOf(err); ok {
			run.ErrorKind = kind.String()
		} else {
			run.ErrorKind = "Internal"
			if boterror.HasCode(err, boterror.CodeTimeout) {
				run.ErrorKind = "Timeout"
			}
		}
		return run
	}

	if result != nil {
		run.Result = interpreter.Repr(result)
	}
	if action, ok := botlang.DecideAction(result); ok {
		run.Action = action.String()
	}
	return run
}

// HashSource returns the hex SHA-256 of a script source
func HashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func newID() string {
	return uuid.NewString()
}
