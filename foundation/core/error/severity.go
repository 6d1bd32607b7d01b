// File: severity.go
// Title: Error Severity Levels
// Description: Severity classification used to pick log levels for errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks errors caused by user input, such as a broken script
	SeverityLow Severity = iota

	// SeverityMedium marks errors that affect one operation
	SeverityMedium

	// SeverityHigh marks errors that break a subsystem
	SeverityHigh

	// SeverityCritical marks errors that make the process unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
