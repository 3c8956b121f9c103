// Package tui is the terminal presentation layer. It renders whatever view
// the navigator committed and forwards every view change request back
// through the navigator, so all guard and resolver logic stays outside the
// UI.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/confirm"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/nav"
	"github.com/trezcool/darasa/core/user"
	notifysvc "github.com/trezcool/darasa/services/notify"
)

// Deps carries everything the TUI renders but does not own.
type Deps struct {
	Conf     *core.Config
	Logger   core.Logger
	Auth     *user.Auth
	Users    *user.Service
	Courses  *course.Service
	Nav      *nav.Navigator
	Workflow *confirm.Workflow
	Notify   *notifysvc.Center
}

// Messages bridging the reactive world into the bubbletea event loop.
type (
	locationChangedMsg struct{ loc nav.Location }
	promptChangedMsg   struct{}
	noticesChangedMsg  struct{}
	sessionChangedMsg  struct{}
	coursesChangedMsg  struct{}
)

// view is a single activated screen. Views are created when the navigator
// commits their location and closed when it moves away.
type view interface {
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
	Close()
}

type modalFocus int

const (
	modalFocusConfirm modalFocus = iota
	modalFocusCancel
)

type App struct {
	deps Deps
	send func(tea.Msg)

	width, height int
	current       view
	location      nav.Location
	focus         modalFocus
}

func newApp(d Deps) *App {
	return &App{deps: d, width: 80, height: 24}
}

// Run starts the terminal program and blocks until it exits.
func Run(d Deps) error {
	app := newApp(d)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.send = p.Send

	unsubs := []func(){
		d.Nav.Location().Subscribe(func(loc nav.Location) { p.Send(locationChangedMsg{loc: loc}) }),
		d.Workflow.Active().Subscribe(func(*confirm.Prompt) { p.Send(promptChangedMsg{}) }),
		d.Notify.Notifications().Subscribe(func([]notifysvc.Notification) { p.Send(noticesChangedMsg{}) }),
		d.Auth.SessionCell().Subscribe(func(*user.Session) { p.Send(sessionChangedMsg{}) }),
	}
	defer func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}()

	_, err := p.Run()
	return err
}

func (a *App) Init() tea.Cmd {
	// the guards decide where we actually land
	a.deps.Nav.Navigate(nav.RouteDashboard, nil)
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case locationChangedMsg:
		a.activate(msg.loc)
		return a, nil

	case promptChangedMsg:
		a.focus = modalFocusConfirm
		return a, nil

	case noticesChangedMsg, sessionChangedMsg:
		return a, nil

	case tea.KeyMsg:
		if prompt := a.deps.Workflow.Active().Get(); prompt != nil {
			a.updateModal(prompt, msg)
			return a, nil
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	if a.current != nil {
		return a, a.current.Update(msg)
	}
	return a, nil
}

// activate swaps in the view for a committed location. The outgoing view is
// closed first so its dirty reporter and timers never outlive it.
func (a *App) activate(loc nav.Location) {
	if a.current != nil {
		a.current.Close()
		a.deps.Nav.ClearDirtyReporter()
	}
	a.location = loc

	switch loc.Route {
	case nav.RouteLogin:
		a.current = newLoginView(a.deps)
	case nav.RouteDashboard:
		a.current = newDashboardView(a.deps)
	case nav.RouteForbidden:
		a.current = newForbiddenView(a.deps)
	case nav.RouteCourses:
		a.current = newCoursesView(a.deps, a.send)
	case nav.RouteCourseCreate:
		form := newCourseFormView(a.deps, nil)
		a.deps.Nav.SetDirtyReporter(form.tracker)
		a.current = form
	case nav.RouteCourseEdit:
		crs, _ := a.deps.Nav.Data().(course.Course)
		form := newCourseFormView(a.deps, &crs)
		a.deps.Nav.SetDirtyReporter(form.tracker)
		a.current = form
	case nav.RouteAdminUsers:
		a.current = newUsersView(a.deps)
	default:
		a.current = newDashboardView(a.deps)
	}
}

func (a *App) updateModal(prompt *confirm.Prompt, msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "ctrl+c":
		prompt.Cancel()
	case "tab", "left", "right":
		if a.focus == modalFocusConfirm {
			a.focus = modalFocusCancel
		} else {
			a.focus = modalFocusConfirm
		}
	case " ":
		if prompt.Request().RequireAcknowledgment {
			prompt.SetAcknowledged(!prompt.Acknowledged())
		}
	case "enter":
		if a.focus == modalFocusCancel {
			prompt.Cancel()
			return
		}
		prompt.Confirm() // no-op while the acknowledgment box is unchecked
	}
}

func (a *App) View() string {
	header := a.renderHeader()
	body := ""
	if a.current != nil {
		body = a.current.View(a.width)
	}
	notices := renderNotices(a.deps.Notify.Notifications().Get(), a.width)

	screen := lipgloss.JoinVertical(lipgloss.Left, header, body, notices)
	if prompt := a.deps.Workflow.Active().Get(); prompt != nil {
		return lipgloss.JoinVertical(lipgloss.Left, screen, renderModal(prompt, a.focus, a.width))
	}
	return screen
}

func (a *App) renderHeader() string {
	title := titleStyle.Render(a.deps.Conf.AppName)
	who := ""
	if s := a.deps.Auth.Current(); s != nil {
		who = mutedStyle.Render("  " + s.User.Username)
	}
	return title + who
}
