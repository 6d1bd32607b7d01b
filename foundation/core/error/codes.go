// File: codes.go
// Title: Error Code Definitions
// Description: Error codes shared by the language pipeline and the tools
//              built around it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial code table

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Language pipeline
	CodeBotlangLexical Code = "BOTLANG_LEXICAL"
	CodeBotlangSyntax  Code = "BOTLANG_SYNTAX"
	CodeBotlangRuntime Code = "BOTLANG_RUNTIME"

	// Storage and transport
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeNetworkError   Code = "NETWORK_ERROR"
	CodeInvalidMessage Code = "INVALID_MESSAGE"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsPipeline reports whether the code belongs to the language pipeline
func (c Code) IsPipeline() bool {
	switch c {
	case CodeBotlangLexical, CodeBotlangSyntax, CodeBotlangRuntime:
		return true
	default:
		return false
	}
}

// DefaultSeverity returns the severity a fresh error with this code gets
func (c Code) DefaultSeverity() Severity {
	switch c {
	case CodeBotlangLexical, CodeBotlangSyntax, CodeBotlangRuntime,
		CodeInvalidInput, CodeValidationFailed, CodeInvalidMessage:
		return SeverityLow
	case CodeInternal, CodeDatabaseError:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
