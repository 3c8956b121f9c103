package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/darasa/core/nav"
)

type forbiddenView struct {
	deps Deps
}

func newForbiddenView(d Deps) *forbiddenView {
	return &forbiddenView{deps: d}
}

func (v *forbiddenView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "esc" || key.String() == "enter") {
		v.deps.Nav.Navigate(nav.RouteDashboard, nil)
	}
	return nil
}

func (v *forbiddenView) View(width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("403: you do not have access to this view"),
		helpStyle.Render("esc: back to dashboard"),
	)
}

func (v *forbiddenView) Close() {}
