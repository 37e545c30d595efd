// Package tui renders a live terminal dashboard for a scrape run using
// bubbletea: a spinner while the gallery loads, a progress bar over the
// collected items, and a rolling log of item outcomes.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxItemLines is how many recent item outcomes stay visible
const maxItemLines = 10

// TotalMsg announces how many media elements the run will process
type TotalMsg struct {
	Total int
}

// ItemMsg reports the outcome of one processed media element
type ItemMsg struct {
	Index   int
	Success bool
	Result  string
}

// DoneMsg ends the run, carrying the run-level error if any
type DoneMsg struct {
	Err error
}

// itemLine is one rendered outcome row
type itemLine struct {
	index   int
	success bool
	result  string
}

// Model is the bubbletea model for a scrape run
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	target    string
	total     int
	processed int
	succeeded int
	items     []itemLine

	finished bool
	runErr   error

	width     int
	height    int
	startTime time.Time
}

// NewModel creates the model for one target URL
func NewModel(target string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		spinner:   s,
		bar:       bar,
		target:    target,
		startTime: time.Now(),
	}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd

	case TotalMsg:
		m.total = msg.Total
		return m, nil

	case ItemMsg:
		m.processed++
		if msg.Success {
			m.succeeded++
		}
		m.items = append(m.items, itemLine{
			index:   msg.Index,
			success: msg.Success,
			result:  msg.Result,
		})
		if len(m.items) > maxItemLines {
			m.items = m.items[len(m.items)-maxItemLines:]
		}
		if m.total > 0 {
			return m, m.bar.SetPercent(float64(m.processed) / float64(m.total))
		}
		return m, nil

	case DoneMsg:
		m.finished = true
		m.runErr = msg.Err
		return m, tea.Quit
	}

	return m, nil
}
