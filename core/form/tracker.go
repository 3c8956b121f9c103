// Package form tracks the dirtiness and validity of a structured set of
// fields against a baseline snapshot.
//
// Fields are declared as data: a name, an initial value and a validation
// rule string evaluated by the shared validator. Create and edit forms for
// the same entity share one field table instead of duplicating validators.
package form

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/reactive"
)

// Field declares a single form field. Rules is a validator tag string
// (e.g. "required,gte=0.5,lte=1000"); bounds live in the rule data, not in
// validator code, so the same rule set serves any field of that shape.
type Field struct {
	Name    string
	Label   string
	Initial interface{}
	Rules   string
}

// Tracker holds live field values, the baseline they are compared against
// and the current violation set per field.
type Tracker struct {
	mu sync.Mutex

	fields   []Field
	values   map[string]interface{}
	baseline map[string]interface{}
	touched  map[string]bool
	// per field, the validator tag names currently violated; empty = valid
	violations map[string][]string

	dirty *reactive.Cell[bool]
	valid *reactive.Cell[bool]
}

// NewTracker builds a tracker from the declared fields. The initial values
// become the first baseline, so a freshly built tracker is never dirty.
func NewTracker(fields ...Field) *Tracker {
	t := &Tracker{
		fields:     fields,
		values:     make(map[string]interface{}, len(fields)),
		baseline:   make(map[string]interface{}, len(fields)),
		touched:    make(map[string]bool, len(fields)),
		violations: make(map[string][]string, len(fields)),
	}
	for _, fld := range fields {
		t.values[fld.Name] = fld.Initial
		t.baseline[fld.Name] = fld.Initial
	}
	t.revalidateAll()
	t.dirty = reactive.NewCell(false)
	t.valid = reactive.NewCell(t.computeValid())
	return t
}

// SetField updates a live value, recomputes that field's violation set and
// marks the field touched. An unknown field name is a programming error.
func (t *Tracker) SetField(name string, value interface{}) {
	t.mu.Lock()
	fld, ok := t.field(name)
	if !ok {
		t.mu.Unlock()
		panic(fmt.Sprintf("form: unknown field %q", name))
	}
	t.values[name] = value
	t.touched[name] = true
	t.violations[name] = validate(value, fld.Rules)
	t.mu.Unlock()

	t.refreshCells()
}

// Value returns the live value of a field.
func (t *Tracker) Value(name string) interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.values[name]
}

// Violations returns the violated validator tag names for a field
// (e.g. "required", "min", "gte"). An empty result means the field is valid.
func (t *Tracker) Violations(name string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.violations[name]...)
}

// ViolationMessages returns the translated messages for a field's violations,
// for inline rendering.
func (t *Tracker) ViolationMessages(name string) []string {
	t.mu.Lock()
	fld, ok := t.field(name)
	value := t.values[name]
	t.mu.Unlock()
	if !ok {
		return nil
	}

	err := core.Validate.Var(value, fld.Rules)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		msgs = append(msgs, fe.Translate(core.Translator))
	}
	return msgs
}

// Touched reports whether SetField was called for the field since the last
// Reset.
func (t *Tracker) Touched(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.touched[name]
}

// SnapshotBaseline copies the live values into the baseline. Call it once
// after every successful load or save; the form reads as clean afterwards.
func (t *Tracker) SnapshotBaseline() {
	t.mu.Lock()
	for name, v := range t.values {
		t.baseline[name] = v
	}
	t.revalidateAll()
	t.mu.Unlock()

	t.refreshCells()
}

// Reset restores the live values to the baseline and clears touched flags.
func (t *Tracker) Reset() {
	t.mu.Lock()
	for name, v := range t.baseline {
		t.values[name] = v
	}
	t.touched = make(map[string]bool, len(t.fields))
	t.revalidateAll()
	t.mu.Unlock()

	t.refreshCells()
}

// IsDirty reports whether any live value differs structurally from the
// baseline.
func (t *Tracker) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.computeDirty()
}

// IsValid reports whether no field has a violation.
func (t *Tracker) IsValid() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.computeValid()
}

// HasUnsavedChanges satisfies the navigation guard contract; it is exactly
// IsDirty.
func (t *Tracker) HasUnsavedChanges() bool {
	return t.IsDirty()
}

// DirtyCell exposes the dirtiness as a reactive cell. Owned by the tracker;
// consumers must only read and subscribe.
func (t *Tracker) DirtyCell() *reactive.Cell[bool] {
	return t.dirty
}

// ValidCell exposes the aggregate validity as a reactive cell. Owned by the
// tracker; consumers must only read and subscribe.
func (t *Tracker) ValidCell() *reactive.Cell[bool] {
	return t.valid
}

// Fields returns the declared field table, in declaration order.
func (t *Tracker) Fields() []Field {
	return t.fields
}

func (t *Tracker) field(name string) (Field, bool) {
	for _, fld := range t.fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return Field{}, false
}

func (t *Tracker) computeDirty() bool {
	for name, v := range t.values {
		if !reflect.DeepEqual(v, t.baseline[name]) {
			return true
		}
	}
	return false
}

func (t *Tracker) computeValid() bool {
	for _, viols := range t.violations {
		if len(viols) > 0 {
			return false
		}
	}
	return true
}

// revalidateAll recomputes every field's violation set. Caller holds t.mu.
func (t *Tracker) revalidateAll() {
	for _, fld := range t.fields {
		t.violations[fld.Name] = validate(t.values[fld.Name], fld.Rules)
	}
}

func (t *Tracker) refreshCells() {
	t.mu.Lock()
	dirty := t.computeDirty()
	valid := t.computeValid()
	t.mu.Unlock()

	reactive.Batch(func() {
		t.dirty.Set(dirty)
		t.valid.Set(valid)
	})
}

func validate(value interface{}, rules string) []string {
	if rules == "" {
		return nil
	}
	err := core.Validate.Var(value, rules)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"invalid"}
	}
	tags := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		tags = append(tags, fe.Tag())
	}
	return tags
}
