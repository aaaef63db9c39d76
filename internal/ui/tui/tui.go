// Package tui provides the interactive module browser built on BubbleTea.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 palette shared by every view.
const (
	colorAccent     = lipgloss.Color("6")
	colorInput      = lipgloss.Color("2")
	colorMuted      = lipgloss.Color("241")
	colorBorder     = lipgloss.Color("240")
	colorSelectedFg = lipgloss.Color("229")
	colorSelectedBg = lipgloss.Color("57")
)

// Styles holds the text styles of the browser.
var Styles = struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Prompt lipgloss.Style
	Input  lipgloss.Style
	Muted  lipgloss.Style
	Status lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1),
	Header: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Prompt: lipgloss.NewStyle().Foreground(colorAccent),
	Input:  lipgloss.NewStyle().Foreground(colorInput).Bold(true),
	Muted:  lipgloss.NewStyle().Foreground(colorMuted),
	Status: lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1),
}

// tableStyles underlines the header row and highlights the cursor row.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(false)
	return s
}

// runFullScreen runs model on the alternate screen until it quits.
func runFullScreen(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithAltScreen()).Run()
}
