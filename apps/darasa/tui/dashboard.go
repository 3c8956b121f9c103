package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/darasa/core/nav"
	"github.com/trezcool/darasa/core/user"
)

type dashboardView struct {
	deps Deps
}

func newDashboardView(d Deps) *dashboardView {
	return &dashboardView{deps: d}
}

func (v *dashboardView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "c":
		v.deps.Nav.Navigate(nav.RouteCourses, nil)
	case "n":
		v.deps.Nav.Navigate(nav.RouteCourseCreate, nil)
	case "u":
		v.deps.Nav.Navigate(nav.RouteAdminUsers, nil)
	case "L":
		v.deps.Auth.Logout()
		v.deps.Nav.Navigate(nav.RouteLogin, nil)
	}
	return nil
}

func (v *dashboardView) View(width int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Dashboard"))
	b.WriteString("\n\n")

	if s := v.deps.Auth.Current(); s != nil {
		b.WriteString(fmt.Sprintf("Karibu, %s!\n\n", s.User.Name))
	}

	courses, err := v.deps.Courses.QueryAll()
	if err != nil {
		v.deps.Logger.Error("dashboard: querying courses", err)
		b.WriteString(errorStyle.Render("could not load course stats"))
	} else {
		published := 0
		for _, crs := range courses {
			if crs.IsPublished {
				published++
			}
		}
		cats, _ := v.deps.Courses.Categories()
		b.WriteString(fmt.Sprintf("Courses: %d (%d published) across %d categories\n", len(courses), published, len(cats)))
	}

	help := "c: courses   n: new course   L: log out   ctrl+c: quit"
	if v.deps.Auth.HasAnyRole(user.RoleAdmin) {
		help = "c: courses   n: new course   u: users   L: log out   ctrl+c: quit"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (v *dashboardView) Close() {}
