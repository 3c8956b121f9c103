package course

import (
	"sync"
	"time"

	"github.com/trezcool/darasa/core/reactive"
)

// DefaultDebounce is the quiescence window applied to free-text query edits.
const DefaultDebounce = 300 * time.Millisecond

// FilterEngine derives a filtered view of a course collection from a set of
// criteria cells. Free-text query edits are debounced so that rapid
// keystrokes apply the filter once, with the final value; category and
// difficulty changes apply immediately. The filtered view is a stable
// subsequence of the raw collection: clearing all criteria restores the full
// collection without a refetch.
type FilterEngine struct {
	raw      *reactive.Cell[[]Course]
	criteria *reactive.Cell[FilterCriteria]
	filtered *reactive.Derived[[]Course]

	mu       sync.Mutex
	debounce time.Duration
	timer    *time.Timer
	closed   bool
}

// NewFilterEngine wraps the given raw collection cell. A non-positive
// debounce falls back to DefaultDebounce.
func NewFilterEngine(raw *reactive.Cell[[]Course], debounce time.Duration) *FilterEngine {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	eng := &FilterEngine{
		raw:      raw,
		criteria: reactive.NewCell(FilterCriteria{}),
		debounce: debounce,
	}
	eng.filtered = reactive.Derive(func() []Course {
		return filter(eng.raw.Get(), eng.criteria.Get())
	}, eng.raw, eng.criteria)
	return eng
}

// Courses returns the derived, read-only filtered view.
func (eng *FilterEngine) Courses() *reactive.Derived[[]Course] {
	return eng.filtered
}

// Criteria returns the currently applied criteria (debounced query included
// only once its window has elapsed).
func (eng *FilterEngine) Criteria() FilterCriteria {
	return eng.criteria.Get()
}

// SetQuery schedules the free-text query to be applied once edits quiesce
// for the debounce window. A newer query supersedes a pending one: only the
// most recent value is ever applied.
func (eng *FilterEngine) SetQuery(query string) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.closed {
		return
	}
	if eng.timer != nil {
		eng.timer.Stop()
	}
	eng.timer = time.AfterFunc(eng.debounce, func() {
		eng.applyQuery(query)
	})
}

func (eng *FilterEngine) applyQuery(query string) {
	eng.mu.Lock()
	if eng.closed {
		eng.mu.Unlock()
		return
	}
	eng.timer = nil
	eng.mu.Unlock()

	crit := eng.criteria.Get()
	crit.Query = query
	crit.Clean()
	eng.criteria.Set(crit)
}

// SetCategory applies the category constraint immediately; empty clears it.
func (eng *FilterEngine) SetCategory(category string) {
	crit := eng.criteria.Get()
	crit.Category = category
	eng.criteria.Set(crit)
}

// SetDifficulty applies the difficulty constraint immediately; empty clears it.
func (eng *FilterEngine) SetDifficulty(difficulty string) {
	crit := eng.criteria.Get()
	crit.Difficulty = difficulty
	eng.criteria.Set(crit)
}

// ClearAll drops every constraint, restoring the full collection. A pending
// debounced query is discarded.
func (eng *FilterEngine) ClearAll() {
	eng.mu.Lock()
	if eng.timer != nil {
		eng.timer.Stop()
		eng.timer = nil
	}
	eng.mu.Unlock()

	eng.criteria.Set(FilterCriteria{})
}

// Close stops any pending debounce timer and detaches the derived view.
func (eng *FilterEngine) Close() {
	eng.mu.Lock()
	eng.closed = true
	if eng.timer != nil {
		eng.timer.Stop()
		eng.timer = nil
	}
	eng.mu.Unlock()

	eng.filtered.Close()
}

func filter(courses []Course, crit FilterCriteria) []Course {
	if crit.IsEmpty() {
		return courses
	}
	out := make([]Course, 0, len(courses))
	for _, crs := range courses {
		if crit.Matches(crs) {
			out = append(out, crs)
		}
	}
	return out
}
