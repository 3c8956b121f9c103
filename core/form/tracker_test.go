package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courseFields() []Field {
	return []Field{
		{Name: "title", Label: "Title", Initial: "", Rules: "required,min=3,max=200"},
		{Name: "description", Label: "Description", Initial: "", Rules: "required,min=10,max=2000"},
		{Name: "duration", Label: "Duration (hours)", Initial: 1.0, Rules: "required,gte=0.5,lte=1000"},
		{Name: "price", Label: "Price", Initial: 0.0, Rules: "gte=0,lte=10000"},
	}
}

func TestTrackerStartsClean(t *testing.T) {
	tr := NewTracker(courseFields()...)

	assert.False(t, tr.IsDirty())
	assert.False(t, tr.HasUnsavedChanges())
	assert.False(t, tr.Touched("title"))
}

func TestTrackerDirtyLifecycle(t *testing.T) {
	tr := NewTracker(courseFields()...)

	tr.SetField("title", "Go for Beginners")
	assert.True(t, tr.IsDirty())
	assert.True(t, tr.Touched("title"))

	// reverting the value by hand makes the form clean again
	tr.SetField("title", "")
	assert.False(t, tr.IsDirty())
}

func TestTrackerSnapshotBaseline(t *testing.T) {
	tr := NewTracker(courseFields()...)

	tr.SetField("title", "Go for Beginners")
	tr.SetField("description", "Learn the Go basics")
	require.True(t, tr.IsDirty())

	tr.SnapshotBaseline() // e.g. after a successful save
	assert.False(t, tr.IsDirty())

	tr.SetField("title", "Go from Zero")
	assert.True(t, tr.IsDirty())
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker(courseFields()...)

	tr.SetField("title", "draft")
	tr.SetField("duration", 3.0)
	tr.Reset()

	assert.False(t, tr.IsDirty())
	assert.Equal(t, "", tr.Value("title"))
	assert.Equal(t, 1.0, tr.Value("duration"))
	assert.False(t, tr.Touched("title"))
}

func TestTrackerViolations(t *testing.T) {
	tr := NewTracker(courseFields()...)

	tr.SetField("duration", 0.2)
	assert.Contains(t, tr.Violations("duration"), "gte")
	assert.False(t, tr.IsValid())

	tr.SetField("duration", 5.0)
	assert.Empty(t, tr.Violations("duration"))

	// still invalid: required text fields are empty
	assert.False(t, tr.IsValid())

	tr.SetField("title", "Go for Beginners")
	tr.SetField("description", "Learn the Go basics")
	assert.True(t, tr.IsValid())
}

func TestTrackerTextRules(t *testing.T) {
	tr := NewTracker(courseFields()...)

	tests := []struct {
		name    string
		value   string
		wantTag string
	}{
		{name: "missing", value: "", wantTag: "required"},
		{name: "too short", value: "Go", wantTag: "min"},
		{name: "just long enough", value: "Go!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr.SetField("title", tt.value)
			if tt.wantTag == "" {
				assert.Empty(t, tr.Violations("title"))
				return
			}
			assert.Contains(t, tr.Violations("title"), tt.wantTag)
		})
	}
}

func TestTrackerViolationMessages(t *testing.T) {
	tr := NewTracker(courseFields()...)

	tr.SetField("duration", 0.2)
	msgs := tr.ViolationMessages("duration")
	require.NotEmpty(t, msgs)
}

func TestTrackerReactiveCells(t *testing.T) {
	tr := NewTracker(courseFields()...)

	var dirtyStates []bool
	tr.DirtyCell().Subscribe(func(v bool) { dirtyStates = append(dirtyStates, v) })

	tr.SetField("title", "Go for Beginners")
	tr.SetField("description", "Learn the Go basics") // already dirty, no extra notification
	tr.Reset()

	assert.Equal(t, []bool{true, false}, dirtyStates)
}

func TestTrackerUnknownFieldPanics(t *testing.T) {
	tr := NewTracker(courseFields()...)

	defer func() {
		if recover() == nil {
			t.Error("SetField() with an unknown name must panic")
		}
	}()
	tr.SetField("nope", 1)
}
