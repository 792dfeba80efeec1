// ABOUTME: Bubbletea model for the pronunciation TUI
// ABOUTME: Defines application state and update logic for text entry, generation and playback
package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/pronounce/internal/app"
	"github.com/harperreed/pronounce/internal/clip"
)

// Generator produces clips from text
type Generator interface {
	Generate(ctx context.Context, text string) (*clip.Clip, error)
	Reset() error
}

// Player plays WAV bytes
type Player interface {
	Play(wavBytes []byte) error
}

// Exporter copies a clip to a download directory
type Exporter interface {
	Export(c *clip.Clip, dir string) (string, error)
}

// Deps are the collaborators behind the TUI
type Deps struct {
	Generator Generator
	Player    Player
	Exporter  Exporter
	ExportDir string
}

// Model represents the TUI state
type Model struct {
	deps Deps

	// Input
	input []rune

	// Generation
	loading bool
	errMsg  string
	clip    *clip.Clip
	spinner int

	// Playback and export
	playing bool
	status  string

	// Dimensions
	width  int
	height int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if m.loading {
			m.spinner = (m.spinner + 1) % len(spinnerFrames)
			return m, tick()
		}
	case GeneratedMsg:
		m.applyGenerated(msg)
	case PlayedMsg:
		m.playing = false
		if msg.Err != nil {
			m.status = fmt.Sprintf("Playback failed: %v", msg.Err)
		} else {
			m.status = "Played"
		}
	case SavedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Save failed: %v", msg.Err)
		} else {
			m.status = fmt.Sprintf("Saved to %s", msg.Path)
		}
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderInput()
	s += m.renderClip()
	s += m.renderHelp()

	return s
}

// renderHeader renders the title bar
func (m Model) renderHeader() string {
	return `┌─ UK Pronunciation Generator ─────────────────────────┐
│ Enter a word or phrase to hear it in British English │
├──────────────────────────────────────────────────────┤
`
}

// renderInput renders the text field, progress and error
func (m Model) renderInput() string {
	cursor := "_"
	if m.inputDisabled() {
		cursor = ""
	}

	s := fmt.Sprintf("│ Text: %-46s │\n", truncate(string(m.input)+cursor, 46))

	switch {
	case m.loading:
		s += fmt.Sprintf("│ %s Generating pronunciation...%-24s │\n", spinnerFrames[m.spinner], "")
	case m.errMsg != "":
		s += fmt.Sprintf("│ ✗ %-50s │\n", truncate(m.errMsg, 50))
	default:
		s += "│                                                      │\n"
	}

	return s
}

// renderClip renders the current clip
func (m Model) renderClip() string {
	if m.clip == nil {
		return "├──────────────────────────────────────────────────────┤\n" +
			"│ No audio yet                                         │\n"
	}

	s := "├──────────────────────────────────────────────────────┤\n"
	s += fmt.Sprintf("│ File:   %-44s │\n", truncate(m.clip.Filename, 44))
	s += fmt.Sprintf("│ Format: %-44s │\n", truncate(m.clip.Format.String(), 44))
	s += fmt.Sprintf("│ Size:   %-44s │\n", formatSize(m.clip.Size))

	status := m.status
	if m.playing {
		status = "Playing..."
	}
	s += fmt.Sprintf("│ %-52s │\n", truncate(status, 52))

	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	if m.clip != nil {
		return `│ p:Play  s:Save  n:Generate new  esc:Quit             │
└──────────────────────────────────────────────────────┘
`
	}
	return `│ enter:Generate  esc:Quit                             │
└──────────────────────────────────────────────────────┘
`
}

// inputDisabled reports whether typing is ignored
func (m Model) inputDisabled() bool {
	return m.loading || m.clip != nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		return m.startGenerate()
	}

	if m.clip != nil && !m.loading {
		switch msg.String() {
		case "p":
			if m.playing {
				return m, nil
			}
			m.playing = true
			m.status = ""
			return m, m.playCmd(m.clip)
		case "s":
			return m, m.saveCmd(m.clip)
		case "n":
			return m.reset(), nil
		}
		return m, nil
	}

	if m.inputDisabled() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}

	return m, nil
}

// startGenerate validates the input and kicks off generation
func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	if m.inputDisabled() {
		return m, nil
	}

	text := string(m.input)
	if !hasText(text) {
		m.errMsg = app.MsgEmptyText
		return m, nil
	}

	m.loading = true
	m.errMsg = ""
	m.status = ""
	m.spinner = 0

	return m, tea.Batch(m.generateCmd(text), tick())
}

// reset returns to text entry
func (m Model) reset() Model {
	if m.deps.Generator != nil {
		if err := m.deps.Generator.Reset(); err != nil {
			log.Printf("Failed to release clip: %v", err)
		}
	}
	m.input = nil
	m.clip = nil
	m.errMsg = ""
	m.status = ""
	m.playing = false
	return m
}

// applyGenerated updates model from a finished generation
func (m *Model) applyGenerated(msg GeneratedMsg) {
	m.loading = false
	m.clip = msg.Clip
	m.errMsg = app.UserMessage(msg.Err)
	if msg.Err != nil {
		m.clip = nil
	}
}

func (m Model) generateCmd(text string) tea.Cmd {
	gen := m.deps.Generator
	return func() tea.Msg {
		if gen == nil {
			return GeneratedMsg{Err: fmt.Errorf("no generator configured")}
		}
		c, err := gen.Generate(context.Background(), text)
		return GeneratedMsg{Clip: c, Err: err}
	}
}

func (m Model) playCmd(c *clip.Clip) tea.Cmd {
	p := m.deps.Player
	return func() tea.Msg {
		if p == nil {
			return PlayedMsg{Err: fmt.Errorf("playback unavailable")}
		}
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return PlayedMsg{Err: err}
		}
		return PlayedMsg{Err: p.Play(data)}
	}
}

func (m Model) saveCmd(c *clip.Clip) tea.Cmd {
	exp, dir := m.deps.Exporter, m.deps.ExportDir
	return func() tea.Msg {
		if exp == nil {
			return SavedMsg{Err: fmt.Errorf("saving unavailable")}
		}
		path, err := exp.Export(c, dir)
		return SavedMsg{Path: path, Err: err}
	}
}

// GeneratedMsg reports the end of a generation
type GeneratedMsg struct {
	Clip *clip.Clip
	Err  error
}

// PlayedMsg reports the end of playback
type PlayedMsg struct {
	Err error
}

// SavedMsg reports the end of an export
type SavedMsg struct {
	Path string
	Err  error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Utility functions
func hasText(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' {
			return true
		}
	}
	return false
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024.0)
}
