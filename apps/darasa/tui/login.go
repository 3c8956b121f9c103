package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/darasa/core/nav"
	"github.com/trezcool/darasa/core/user"
)

type loginView struct {
	deps   Deps
	inputs []textinput.Model
	focus  int
	errMsg string
}

func newLoginView(d Deps) *loginView {
	uname := textinput.New()
	uname.Placeholder = "username or email"
	uname.CharLimit = 254
	uname.Focus()

	pwd := textinput.New()
	pwd.Placeholder = "password"
	pwd.EchoMode = textinput.EchoPassword
	pwd.CharLimit = 254

	return &loginView{deps: d, inputs: []textinput.Model{uname, pwd}}
}

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			v.inputs[v.focus].Blur()
			v.focus = (v.focus + 1) % len(v.inputs)
			v.inputs[v.focus].Focus()
			return nil
		case "enter":
			v.submit()
			return nil
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *loginView) submit() {
	creds := user.Credentials{
		Username: v.inputs[0].Value(),
		Password: v.inputs[1].Value(),
	}
	if err := creds.Validate(); err != nil {
		v.errMsg = "username and password are required"
		return
	}

	if _, err := v.deps.Auth.Login(creds.Username, creds.Password); err != nil {
		switch {
		case errors.Is(err, user.ErrAuthenticationFailed):
			v.errMsg = "invalid credentials"
		case errors.Is(err, user.ErrAccountDeactivated):
			v.errMsg = "this account has been deactivated"
		default:
			v.deps.Logger.Error("login", err)
			v.errMsg = "something went wrong, try again"
		}
		return
	}
	v.errMsg = ""
	v.deps.Nav.Navigate(nav.RouteDashboard, nil)
}

func (v *loginView) View(width int) string {
	parts := []string{
		labelStyle.Render("Log in"),
		"",
		v.inputs[0].View(),
		v.inputs[1].View(),
	}
	if v.errMsg != "" {
		parts = append(parts, "", errorStyle.Render(v.errMsg))
	}
	parts = append(parts, helpStyle.Render("tab: switch field   enter: log in   ctrl+c: quit"))
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (v *loginView) Close() {}
