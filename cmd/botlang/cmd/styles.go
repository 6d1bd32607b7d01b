package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/botlang/foundation/botlang/diag"
)

// Colors
var (
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")
)

// Styles
var (
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	caretStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	actionStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// reportedError marks failures whose diagnostic was already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// report prints a coloured diagnostic and returns err marked as reported
func report(w io.Writer, err error) error {
	fmt.Fprintln(w, renderDiagnostic(err))
	return &reportedError{err: err}
}

// renderDiagnostic colours diag.Render output: traceback muted, message
// bold red, carets red
func renderDiagnostic(err error) string {
	var e *diag.Error
	if !errors.As(err, &e) {
		return errorStyle.Render("error:") + " " + err.Error()
	}

	var parts []string
	if tb := e.Traceback(); tb != "" {
		parts = append(parts, mutedStyle.Render(tb))
	}
	parts = append(parts, errorStyle.Render(e.Error()))
	if snippet := e.Snippet(); snippet != "" {
		for _, line := range strings.Split(snippet, "\n") {
			if strings.Trim(line, " ^") == "" {
				line = caretStyle.Render(line)
			}
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}
