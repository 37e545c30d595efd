package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("MEDIASCRAPER"))
	sections = append(sections, m.renderStatus())
	sections = append(sections, m.renderItems())

	if m.finished {
		sections = append(sections, m.renderSummary())
	} else {
		sections = append(sections, helpStyle.Render("Press q to quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatus renders the target, progress bar and counters
func (m Model) renderStatus() string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s",
		labelStyle.Render("Target:"),
		valueStyle.Render(m.target)))

	if m.total == 0 && !m.finished {
		lines = append(lines, fmt.Sprintf("%s collecting media elements...", m.spinner.View()))
	} else {
		lines = append(lines, m.bar.View())
		lines = append(lines, fmt.Sprintf("%s %s  %s %s  %s %s",
			labelStyle.Render("Processed:"),
			valueStyle.Render(fmt.Sprintf("%d/%d", m.processed, m.total)),
			labelStyle.Render("OK:"),
			successStyle.Render(fmt.Sprintf("%d", m.succeeded)),
			labelStyle.Render("Failed:"),
			failureStyle.Render(fmt.Sprintf("%d", m.processed-m.succeeded))))
	}

	lines = append(lines, fmt.Sprintf("%s %s",
		labelStyle.Render("Elapsed:"),
		valueStyle.Render(time.Since(m.startTime).Round(time.Second).String())))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderItems renders the rolling item outcome log
func (m Model) renderItems() string {
	if len(m.items) == 0 {
		return ""
	}

	var lines []string
	for _, item := range m.items {
		if item.success {
			lines = append(lines, successStyle.Render(fmt.Sprintf("✓ %3d  %s", item.index, item.result)))
		} else {
			lines = append(lines, failureStyle.Render(fmt.Sprintf("✗ %3d  %s", item.index, item.result)))
		}
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderSummary renders the final outcome line
func (m Model) renderSummary() string {
	if m.runErr != nil {
		return warningStyle.Render(fmt.Sprintf("Scrape failed: %v", m.runErr))
	}
	return successStyle.Render(fmt.Sprintf("Scrape finished: %d/%d items downloaded", m.succeeded, m.total))
}
