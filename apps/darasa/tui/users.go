package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/darasa/core/nav"
)

type usersView struct {
	deps  Deps
	table table.Model
}

func newUsersView(d Deps) *usersView {
	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 24},
			{Title: "Username", Width: 16},
			{Title: "Email", Width: 28},
			{Title: "Roles", Width: 24},
			{Title: "Active", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	v := &usersView{deps: d, table: tbl}
	v.reload()
	return v
}

func (v *usersView) reload() {
	users, err := v.deps.Users.QueryAll()
	if err != nil {
		v.deps.Logger.Error("users: querying", err)
		v.deps.Notify.Error("Could not load users")
		return
	}
	rows := make([]table.Row, 0, len(users))
	for _, usr := range users {
		active := "no"
		if usr.IsActive {
			active = "yes"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(usr.ID),
			usr.Name,
			usr.Username,
			usr.Email,
			strings.Join(usr.Roles, " "),
			active,
		})
	}
	v.table.SetRows(rows)
}

func (v *usersView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		v.deps.Nav.Navigate(nav.RouteDashboard, nil)
		return nil
	}
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *usersView) View(width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Users"),
		"",
		v.table.View(),
		helpStyle.Render("esc: dashboard"),
	))
}

func (v *usersView) Close() {}
