package reactive

import "sync"

// The scheduler serializes all change notifications through a single queue.
// A plain Set outside of a Batch still delivers synchronously: the submitting
// goroutine drains the queue itself before returning. Inside a Batch (or while
// a drain is already running) tasks are only enqueued, deduplicated by key, so
// each cell notifies at most once per batch with its final value.
var sched = &scheduler{queued: make(map[interface{}]bool)}

type task struct {
	key interface{}
	run func()
}

type scheduler struct {
	mu       sync.Mutex
	depth    int
	draining bool
	queue    []task
	queued   map[interface{}]bool
}

func (s *scheduler) submit(key interface{}, run func()) {
	s.mu.Lock()
	if s.queued[key] {
		s.mu.Unlock()
		return
	}
	s.queued[key] = true
	s.queue = append(s.queue, task{key: key, run: run})
	start := s.depth == 0 && !s.draining
	if start {
		s.draining = true
	}
	s.mu.Unlock()

	if start {
		s.drain()
	}
}

func (s *scheduler) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		t := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.queued, t.key)
		s.mu.Unlock()

		t.run()
	}
}

func (s *scheduler) enter() {
	s.mu.Lock()
	s.depth++
	s.mu.Unlock()
}

func (s *scheduler) exit() {
	s.mu.Lock()
	s.depth--
	start := s.depth == 0 && !s.draining && len(s.queue) > 0
	if start {
		s.draining = true
	}
	s.mu.Unlock()

	if start {
		s.drain()
	}
}

// Batch runs fn and coalesces all notifications it triggers: every cell
// changed within fn notifies its subscribers at most once, after fn returns,
// with its final value. Dependent derived cells recompute exactly once.
// Batches may nest; notifications fire when the outermost one ends.
func Batch(fn func()) {
	sched.enter()
	defer sched.exit()
	fn()
}
