// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model for the interactive botlang REPL
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/botlang/foundation/botlang/diag"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
)

const (
	promptReady    = ">>> "
	promptContinue = "... "
)

// Config holds REPL configuration
type Config struct {
	Sensors      interpreter.Sensors
	MaxCallDepth int
	Timeout      time.Duration
	Version      string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxCallDepth: interpreter.DefaultMaxCallDepth,
		Timeout:      5 * time.Second,
	}
}

// Model is the Bubbletea model of the REPL
type Model struct {
	// State
	width    int
	height   int
	ready    bool
	quitting bool

	// Components
	input    textinput.Model
	viewport viewport.Model

	session    *Session
	transcript []string
	evaluated  int
	config     Config

	// Input history
	inputHistory []string
	historyIndex int    // -1 while editing a new line
	currentInput string // line being edited before navigating history
}

// New creates a new REPL model
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Prompt = PromptStyle.Render(promptReady)
	ti.Placeholder = "expression, statement or :help"
	ti.CharLimit = 4096
	ti.Focus()

	if cfg.MaxCallDepth <= 0 {
		cfg.MaxCallDepth = interpreter.DefaultMaxCallDepth
	}

	return Model{
		input:        ti,
		session:      NewSession(cfg.Sensors, cfg.MaxCallDepth, cfg.Timeout),
		transcript:   []string{InfoStyle.Render("Type :help for commands, Ctrl+C to quit.")},
		historyIndex: -1,
		config:       cfg,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 4
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = msg.Width - 8
		m.updateViewportContent()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.transcript = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyUp:
		if len(m.inputHistory) == 0 {
			return m, nil
		}
		if m.historyIndex == -1 {
			m.currentInput = m.input.Value()
			m.historyIndex = len(m.inputHistory) - 1
		} else if m.historyIndex > 0 {
			m.historyIndex--
		}
		m.input.SetValue(m.inputHistory[m.historyIndex])
		m.input.CursorEnd()
		return m, nil

	case tea.KeyDown:
		if m.historyIndex == -1 {
			return m, nil
		}
		if m.historyIndex < len(m.inputHistory)-1 {
			m.historyIndex++
			m.input.SetValue(m.inputHistory[m.historyIndex])
		} else {
			m.historyIndex = -1
			m.input.SetValue(m.currentInput)
		}
		m.input.CursorEnd()
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		line := m.input.Value()
		m.input.SetValue("")
		m.historyIndex = -1
		m.currentInput = ""
		if strings.TrimSpace(line) != "" {
			m.inputHistory = append(m.inputHistory, line)
		}
		if cmd := m.submit(line); cmd != nil {
			return m, cmd
		}
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles one input line: REPL commands or code
func (m *Model) submit(line string) tea.Cmd {
	prompt := promptReady
	if m.session.Pending() {
		prompt = promptContinue
	}

	if !m.session.Pending() {
		switch strings.TrimSpace(line) {
		case ":quit", ":q":
			m.quitting = true
			return tea.Quit
		case ":reset":
			m.session.Reset()
			m.transcript = append(m.transcript, InfoStyle.Render("session reset"))
			return nil
		case ":vars":
			m.transcript = append(m.transcript, InfoStyle.Render(strings.Join(m.session.Names(), " ")))
			return nil
		case ":help":
			m.transcript = append(m.transcript, InfoStyle.Render(helpText))
			return nil
		}
	}

	m.transcript = append(m.transcript, PromptStyle.Render(prompt)+InputEchoStyle.Render(line))
	entry := m.session.Eval(line)
	if m.session.Pending() {
		m.input.Prompt = PromptStyle.Render(promptContinue)
	} else {
		m.input.Prompt = PromptStyle.Render(promptReady)
	}
	if entry == nil {
		return nil
	}

	m.evaluated++
	if entry.Output != "" {
		m.transcript = append(m.transcript, OutputStyle.Render(strings.TrimRight(entry.Output, "\n")))
	}
	if entry.Err != nil {
		m.transcript = append(m.transcript, ErrorStyle.Render(diag.Render(entry.Err)))
		return nil
	}
	if shown := entry.Display(); shown != "" {
		m.transcript = append(m.transcript, ValueStyle.Render(shown))
	}
	return nil
}

const helpText = `:help   show this help
:vars   list bound names
:reset  drop all definitions
:quit   leave the REPL
An empty line ends an open block early; Up/Down browse input history,
Ctrl+L clears the screen.`

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting REPL..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("botlang " + m.config.Version))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(InputBoxStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(StatusBarStyle.Render(fmt.Sprintf("%d evaluated · %d sensors · Ctrl+C quit",
		m.evaluated, len(m.config.Sensors))))
	return b.String()
}

// Transcript returns the plain session log lines (styled)
func (m Model) Transcript() []string {
	return m.transcript
}

// Run starts the REPL TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
