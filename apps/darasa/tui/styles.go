package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))

	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("205"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	destructiveModalStyle = modalStyle.BorderForeground(lipgloss.Color("160"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237"))

	activeButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Bold(true)

	disabledButtonStyle = buttonStyle.Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)
