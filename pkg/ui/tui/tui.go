package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TUI wraps the bubbletea program for use from the scrape command. The
// program runs on the caller's goroutine via Start; the scrape loop
// feeds it from another goroutine through the message helpers.
type TUI struct {
	program *tea.Program
}

// New creates a TUI for one target URL
func New(target string) *TUI {
	model := NewModel(target)
	return &TUI{
		program: tea.NewProgram(model, tea.WithAltScreen()),
	}
}

// Start runs the program until the run finishes or the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// SetTotal announces the number of media elements in the run
func (t *TUI) SetTotal(total int) {
	t.program.Send(TotalMsg{Total: total})
}

// ReportItem reports one processed media element
func (t *TUI) ReportItem(index int, success bool, result string) {
	t.program.Send(ItemMsg{Index: index, Success: success, Result: result})
}

// Finish ends the run and shuts the program down
func (t *TUI) Finish(err error) {
	t.program.Send(DoneMsg{Err: err})
}
