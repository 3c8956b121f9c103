package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/form"
	"github.com/trezcool/darasa/core/nav"
)

// Field rules mirror the course model constraints; they live here as data so
// the tracker can flag violations while the user types, before the service
// ever sees the payload.
var courseFields = []form.Field{
	{Name: "title", Label: "Title", Initial: "", Rules: "required,min=3,max=200"},
	{Name: "description", Label: "Description", Initial: "", Rules: "required,min=10,max=2000"},
	{Name: "category", Label: "Category", Initial: "", Rules: "required"},
	{Name: "difficulty", Label: "Difficulty", Initial: "", Rules: "required,oneof=Beginner Intermediate Advanced"},
	{Name: "instructor", Label: "Instructor", Initial: "", Rules: "required,min=2,max=100"},
	{Name: "duration", Label: "Duration (hours)", Initial: 0.0, Rules: "required,gte=0.5,lte=1000"},
	{Name: "price", Label: "Price", Initial: 0.0, Rules: "gte=0,lte=10000"},
	// no rules; tracked so a lone publish toggle still counts as an edit
	{Name: "published", Label: "Published", Initial: false},
}

type courseFormView struct {
	deps    Deps
	orig    *course.Course // nil when creating
	tracker *form.Tracker

	inputs []textinput.Model // one per text field; published has no input
	focus  int
	errMsg string
}

func newCourseFormView(d Deps, orig *course.Course) *courseFormView {
	fields := make([]form.Field, len(courseFields))
	copy(fields, courseFields)
	if orig != nil {
		fields[0].Initial = orig.Title
		fields[1].Initial = orig.Description
		fields[2].Initial = orig.Category
		fields[3].Initial = orig.Difficulty
		fields[4].Initial = orig.Instructor
		fields[5].Initial = orig.Duration
		fields[6].Initial = orig.Price
		fields[7].Initial = orig.IsPublished
	}

	inputs := make([]textinput.Model, len(fields)-1)
	for i, fld := range fields[:len(fields)-1] {
		ti := textinput.New()
		ti.Placeholder = fld.Label
		ti.CharLimit = 2000
		switch val := fld.Initial.(type) {
		case string:
			ti.SetValue(val)
		case float64:
			if val != 0 {
				ti.SetValue(strconv.FormatFloat(val, 'f', -1, 64))
			}
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	return &courseFormView{
		deps:    d,
		orig:    orig,
		tracker: form.NewTracker(fields...),
		inputs:  inputs,
	}
}

func (v *courseFormView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "tab", "down":
		v.moveFocus(1)
		return nil
	case "shift+tab", "up":
		v.moveFocus(-1)
		return nil
	case "ctrl+t":
		v.tracker.SetField("published", !v.tracker.Value("published").(bool))
		return nil
	case "ctrl+s":
		v.save()
		return nil
	case "esc":
		// the unsaved-changes guard decides whether this needs a prompt
		v.deps.Nav.Navigate(nav.RouteCourses, nil)
		return nil
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	v.syncField(v.focus)
	return cmd
}

func (v *courseFormView) moveFocus(delta int) {
	v.inputs[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Focus()
}

// syncField feeds the raw input into the tracker, parsing numeric fields.
// Unparseable numbers become 0, which the rules then flag.
func (v *courseFormView) syncField(i int) {
	fld := v.tracker.Fields()[i]
	raw := v.inputs[i].Value()
	switch fld.Initial.(type) {
	case float64:
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			val = 0
		}
		v.tracker.SetField(fld.Name, val)
	default:
		v.tracker.SetField(fld.Name, raw)
	}
}

func (v *courseFormView) save() {
	if !v.tracker.IsValid() {
		v.errMsg = "fix the highlighted fields first"
		return
	}
	v.errMsg = ""

	str := func(name string) string { return v.tracker.Value(name).(string) }
	num := func(name string) float64 { return v.tracker.Value(name).(float64) }
	published := v.tracker.Value("published").(bool)

	if v.orig == nil {
		nc := course.NewCourse{
			Title:       str("title"),
			Description: str("description"),
			Category:    str("category"),
			Difficulty:  str("difficulty"),
			Instructor:  str("instructor"),
			Duration:    num("duration"),
			Price:       num("price"),
			IsPublished: published,
		}
		if err := nc.Validate(); err != nil {
			v.showSaveError(err)
			return
		}
		crs, err := v.deps.Courses.Create(nc)
		if err != nil {
			v.showSaveError(err)
			return
		}
		v.deps.Notify.Success("Created " + crs.Title)
	} else {
		duration, price, pub := num("duration"), num("price"), published
		uc := course.UpdateCourse{
			Title:       str("title"),
			Description: str("description"),
			Category:    str("category"),
			Difficulty:  str("difficulty"),
			Instructor:  str("instructor"),
			Duration:    &duration,
			Price:       &price,
			IsPublished: &pub,
		}
		if err := uc.Validate(*v.orig); err != nil {
			v.showSaveError(err)
			return
		}
		crs, err := v.deps.Courses.Update(v.orig.ID, uc)
		if err != nil {
			v.showSaveError(err)
			return
		}
		v.deps.Notify.Success("Saved " + crs.Title)
	}

	// a committed save leaves nothing unsaved to guard
	v.tracker.SnapshotBaseline()
	v.deps.Nav.Navigate(nav.RouteCourses, nil)
}

func (v *courseFormView) showSaveError(err error) {
	var vErr *core.ValidationError
	var fErrs validator.ValidationErrors
	if errors.As(err, &vErr) || errors.As(err, &fErrs) {
		v.errMsg = err.Error()
		return
	}
	v.deps.Logger.Error("course form: saving", err)
	v.deps.Notify.Error("Could not save the course")
}

func (v *courseFormView) View(width int) string {
	title := "New Course"
	if v.orig != nil {
		title = fmt.Sprintf("Edit Course #%d", v.orig.ID)
	}

	parts := []string{labelStyle.Render(title), ""}
	for i, fld := range v.tracker.Fields()[:len(v.inputs)] {
		label := labelStyle.Render(fld.Label)
		if i == v.focus {
			label = focusedLabelStyle.Render(fld.Label)
		}
		line := label + " " + v.inputs[i].View()
		if v.tracker.Touched(fld.Name) {
			if msgs := v.tracker.ViolationMessages(fld.Name); len(msgs) > 0 {
				line += "\n  " + errorStyle.Render(strings.Join(msgs, "; "))
			}
		}
		parts = append(parts, line)
	}

	pub := "[ ] published"
	if v.tracker.Value("published").(bool) {
		pub = "[x] published"
	}
	parts = append(parts, "", pub)

	if v.errMsg != "" {
		parts = append(parts, "", errorStyle.Render(v.errMsg))
	}
	if v.tracker.IsDirty() {
		parts = append(parts, mutedStyle.Render("unsaved changes"))
	}
	parts = append(parts, helpStyle.Render("tab: next field   ctrl+t: toggle published   ctrl+s: save   esc: back"))
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (v *courseFormView) Close() {}
