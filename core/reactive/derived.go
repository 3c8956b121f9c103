package reactive

import "sync"

// Derived is a read-only cell whose value is computed from one or more
// sources. It recomputes once per batch of source changes; readers in
// between see a freshly computed value, never a stale intermediate.
type Derived[T any] struct {
	cell    *Cell[T]
	compute func() T

	mu    sync.Mutex
	dirty bool
	stops []func()
}

// Derive returns a cell computed by fn from the given sources. fn must be a
// pure function of the sources' current values. Deriving over zero sources is
// a programming error and panics.
func Derive[T any](fn func() T, sources ...Source) *Derived[T] {
	if len(sources) == 0 {
		panic("reactive: Derive requires at least one source")
	}
	d := &Derived[T]{
		cell:    NewCell(fn()),
		compute: fn,
	}
	for _, src := range sources {
		d.stops = append(d.stops, src.onChange(d.invalidate))
	}
	return d
}

func (d *Derived[T]) invalidate() {
	d.mu.Lock()
	d.dirty = true
	d.mu.Unlock()

	sched.submit(d, d.refresh)
}

func (d *Derived[T]) refresh() {
	d.mu.Lock()
	if !d.dirty {
		d.mu.Unlock()
		return
	}
	d.dirty = false
	d.mu.Unlock()

	d.cell.Set(d.compute())
}

// Get returns the current value, recomputing first if a source changed since
// the last recomputation.
func (d *Derived[T]) Get() T {
	d.refresh()
	return d.cell.Get()
}

// Subscribe registers fn to be called whenever the derived value changes.
func (d *Derived[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return d.cell.Subscribe(fn)
}

// Close detaches the derived cell from its sources. Existing subscribers
// stop receiving updates.
func (d *Derived[T]) Close() {
	for _, stop := range d.stops {
		stop()
	}
	d.stops = nil
}

func (d *Derived[T]) onChange(fn func()) func() {
	return d.cell.onChange(fn)
}
