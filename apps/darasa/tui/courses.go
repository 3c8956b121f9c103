package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/darasa/core/confirm"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/nav"
	"github.com/trezcool/darasa/core/reactive"
)

type coursesView struct {
	deps Deps
	send func(tea.Msg)

	raw    *reactive.Cell[[]course.Course]
	engine *course.FilterEngine
	unsub  func()

	search     textinput.Model
	searching  bool
	categories []string // "" first = no category filter
	catIdx     int
	diffIdx    int

	table table.Model
}

var difficulties = append([]string{""}, course.Difficulties...)

func newCoursesView(d Deps, send func(tea.Msg)) *coursesView {
	search := textinput.New()
	search.Placeholder = "search title, description or instructor"
	search.CharLimit = 200

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Title", Width: 32},
			{Title: "Category", Width: 14},
			{Title: "Difficulty", Width: 12},
			{Title: "Instructor", Width: 18},
			{Title: "Hours", Width: 6},
			{Title: "Price", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	v := &coursesView{
		deps:       d,
		send:       send,
		raw:        reactive.NewCell([]course.Course{}),
		search:     search,
		categories: []string{""},
		table:      tbl,
	}
	v.engine = course.NewFilterEngine(v.raw, d.Conf.SearchDebounceDelta)
	v.unsub = v.engine.Courses().Subscribe(func([]course.Course) { send(coursesChangedMsg{}) })

	v.reload()
	v.refreshRows()
	return v
}

// reload pulls the collection from the service into the raw cell; the
// filter engine recomputes from there.
func (v *coursesView) reload() {
	courses, err := v.deps.Courses.QueryAll()
	if err != nil {
		v.deps.Logger.Error("courses: querying", err)
		v.deps.Notify.Error("Could not load courses")
		return
	}
	v.raw.Set(courses)

	cats, err := v.deps.Courses.Categories()
	if err == nil {
		v.categories = append([]string{""}, cats...)
		if v.catIdx >= len(v.categories) {
			v.catIdx = 0
		}
	}
}

func (v *coursesView) refreshRows() {
	courses := v.engine.Courses().Get()
	rows := make([]table.Row, 0, len(courses))
	for _, crs := range courses {
		rows = append(rows, table.Row{
			strconv.Itoa(crs.ID),
			crs.Title,
			crs.Category,
			crs.Difficulty,
			crs.Instructor,
			fmt.Sprintf("%g", crs.Duration),
			fmt.Sprintf("%.2f", crs.Price),
		})
	}
	v.table.SetRows(rows)
}

func (v *coursesView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case coursesChangedMsg:
		v.refreshRows()
		return nil

	case tea.KeyMsg:
		if v.searching {
			switch msg.String() {
			case "enter", "esc":
				v.searching = false
				v.search.Blur()
				return nil
			default:
				var cmd tea.Cmd
				v.search, cmd = v.search.Update(msg)
				v.engine.SetQuery(v.search.Value())
				return cmd
			}
		}

		switch msg.String() {
		case "/":
			v.searching = true
			v.search.Focus()
			return nil
		case "f":
			v.catIdx = (v.catIdx + 1) % len(v.categories)
			v.engine.SetCategory(v.categories[v.catIdx])
			return nil
		case "g":
			v.diffIdx = (v.diffIdx + 1) % len(difficulties)
			v.engine.SetDifficulty(difficulties[v.diffIdx])
			return nil
		case "x":
			v.search.SetValue("")
			v.catIdx, v.diffIdx = 0, 0
			v.engine.ClearAll()
			return nil
		case "n":
			v.deps.Nav.Navigate(nav.RouteCourseCreate, nil)
			return nil
		case "enter":
			if id := v.selectedID(); id != "" {
				v.deps.Nav.Navigate(nav.RouteCourseEdit, nav.Params{"id": id})
			}
			return nil
		case "d":
			v.deleteSelected()
			return nil
		case "esc":
			v.deps.Nav.Navigate(nav.RouteDashboard, nil)
			return nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return cmd
}

func (v *coursesView) selectedID() string {
	row := v.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// deleteSelected asks for confirmation first; the prompt cannot be
// confirmed until its acknowledgment box is checked.
func (v *coursesView) deleteSelected() {
	row := v.table.SelectedRow()
	if len(row) == 0 {
		return
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return
	}
	title := row[1]

	prompt := v.deps.Workflow.Open(context.Background(), confirm.Delete(
		fmt.Sprintf("course %q", title),
		"Students enrolled in this course will lose access.",
	))
	go func() {
		res := <-prompt.Done()
		if !res.Confirmed {
			return
		}
		if err := v.deps.Courses.Delete(id); err != nil {
			v.deps.Logger.Error("courses: deleting", err)
			v.deps.Notify.Error("Could not delete " + title)
			return
		}
		v.deps.Notify.Success("Deleted " + title)
		v.reload()
	}()
}

func (v *coursesView) View(width int) string {
	filters := fmt.Sprintf("search: %s   category: %s   difficulty: %s",
		orAny(v.search.Value()), orAny(v.categories[v.catIdx]), orAny(difficulties[v.diffIdx]))

	parts := []string{
		labelStyle.Render("Courses"),
		"",
	}
	if v.searching {
		parts = append(parts, v.search.View())
	} else {
		parts = append(parts, mutedStyle.Render(filters))
	}
	parts = append(parts,
		"",
		v.table.View(),
		helpStyle.Render("/: search   f: category   g: difficulty   x: clear   n: new   enter: edit   d: delete   esc: dashboard"),
	)
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (v *coursesView) Close() {
	v.unsub()
	v.engine.Close()
}

func orAny(s string) string {
	if s == "" {
		return "(any)"
	}
	return s
}
