// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the pronunciation UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewModel creates a new TUI model
func NewModel(deps Deps) Model {
	return Model{
		deps: deps,
	}
}

// Run starts the TUI
func Run(deps Deps) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen())
	return p, nil
}
