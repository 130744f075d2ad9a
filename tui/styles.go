package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sortStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	summaryStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	priceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	soldOutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)
