package nav

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/confirm"
	"github.com/trezcool/darasa/core/reactive"
	"github.com/trezcool/darasa/core/user"
)

type Phase int

const (
	PhaseEvaluating Phase = iota
	PhasePending
	PhaseResolving
	PhaseAllowed
	PhaseDenied
	PhaseSuperseded
)

func (p Phase) String() string {
	switch p {
	case PhaseEvaluating:
		return "evaluating"
	case PhasePending:
		return "pending"
	case PhaseResolving:
		return "resolving"
	case PhaseAllowed:
		return "allowed"
	case PhaseDenied:
		return "denied"
	case PhaseSuperseded:
		return "superseded"
	}
	return "unknown"
}

// AttemptState is the inspectable condition of a navigation attempt.
type AttemptState struct {
	Phase      Phase
	GuardIndex int
	Guard      string
	Redirect   *Location
}

// Attempt is a single navigation request working its way through the guard
// pipeline.
type Attempt struct {
	ID     uuid.UUID
	From   Location
	Target Location
	Route  Route

	state  *reactive.Cell[AttemptState]
	data   interface{}
	done   chan struct{}
	cancel context.CancelFunc
}

func (a *Attempt) State() AttemptState {
	return a.state.Get()
}

// StateCell exposes the attempt state reactively (e.g. for a busy spinner).
func (a *Attempt) StateCell() *reactive.Cell[AttemptState] {
	return a.state
}

// Done closes once the attempt reaches a terminal phase.
func (a *Attempt) Done() <-chan struct{} { return a.done }

// Data returns the resolver output; only set once the attempt is Allowed.
func (a *Attempt) Data() interface{} { return a.data }

func (a *Attempt) setState(s AttemptState) { a.state.Set(s) }

// Notifier surfaces recoverable navigation failures to the user without
// blocking anything.
type Notifier interface {
	Error(msg string)
}

// Navigator evaluates navigation attempts through the ordered guard chain
// {authentication, authorization, unsaved-changes}, runs the target's
// resolver and commits the location. Only one attempt is in flight at a
// time: a newer Navigate supersedes the current attempt, cancelling its
// pending confirmation.
type Navigator struct {
	router   *Router
	guards   []Guard
	logger   core.Logger
	notifier Notifier

	mu       sync.Mutex
	current  *Attempt
	data     interface{}
	reporter DirtyReporter

	location *reactive.Cell[Location]
}

func NewNavigator(
	router *Router,
	auth *user.Auth,
	workflow *confirm.Workflow,
	logger core.Logger,
	notifier Notifier,
	initial Location,
) *Navigator {
	n := &Navigator{
		router:   router,
		logger:   logger,
		notifier: notifier,
		location: reactive.NewCell(initial),
	}
	n.guards = []Guard{
		NewAuthenticationGuard(auth),
		NewAuthorizationGuard(auth),
		NewUnsavedChangesGuard(workflow, n.dirtyReporter),
	}
	return n
}

// Location exposes the committed location; views subscribe to activate.
func (n *Navigator) Location() *reactive.Cell[Location] {
	return n.location
}

// Data returns the resolver output for the committed location.
func (n *Navigator) Data() interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.data
}

// SetDirtyReporter registers the active view's unsaved-changes source.
// Views call this on activation and ClearDirtyReporter on deactivation.
func (n *Navigator) SetDirtyReporter(r DirtyReporter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reporter = r
}

func (n *Navigator) ClearDirtyReporter() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reporter = nil
}

func (n *Navigator) dirtyReporter() DirtyReporter {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reporter
}

// Navigate requests a move to the named route. It returns immediately; the
// attempt evaluates asynchronously and commits (or redirects) when done.
// An in-flight attempt is superseded: its context is cancelled and any open
// confirmation prompt tied to it resolves as declined.
func (n *Navigator) Navigate(target string, params Params) *Attempt {
	route, ok := n.router.Get(target)
	if !ok {
		// unknown targets fall through to the dashboard
		n.logger.Warn(fmt.Sprintf("nav: unknown route %q", target))
		target = RouteDashboard
		route, _ = n.router.Get(target)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Attempt{
		ID:     uuid.New(),
		Target: Location{Route: target, Params: params},
		Route:  route,
		state:  reactive.NewCell(AttemptState{Phase: PhaseEvaluating}),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	n.mu.Lock()
	if n.current != nil {
		n.current.cancel()
	}
	n.current = a
	a.From = n.location.Get()
	n.mu.Unlock()

	go n.run(ctx, a)
	return a
}

func (n *Navigator) run(ctx context.Context, a *Attempt) {
	defer close(a.done)

	for i, g := range n.guards {
		if ctx.Err() != nil {
			a.setState(AttemptState{Phase: PhaseSuperseded})
			return
		}
		a.setState(AttemptState{Phase: PhaseEvaluating, GuardIndex: i, Guard: g.Name()})

		d := g.Evaluate(ctx, a)
		for d.Kind == DecisionPending {
			a.setState(AttemptState{Phase: PhasePending, GuardIndex: i, Guard: g.Name()})
			d = d.Wait(ctx)
		}
		if ctx.Err() != nil {
			a.setState(AttemptState{Phase: PhaseSuperseded})
			return
		}

		switch d.Kind {
		case DecisionAllow:
			continue
		case DecisionRedirect:
			n.deny(a, d.Target)
			return
		}
	}

	var data interface{}
	if a.Route.Resolve != nil {
		a.setState(AttemptState{Phase: PhaseResolving, GuardIndex: len(n.guards)})
		var err error
		data, err = a.Route.Resolve(ctx, a.Target.Params)
		if err != nil {
			if ctx.Err() != nil {
				a.setState(AttemptState{Phase: PhaseSuperseded})
				return
			}
			n.logger.Warn(fmt.Sprintf("nav: resolving %q: %v", a.Target.Route, err))
			if n.notifier != nil {
				n.notifier.Error(fmt.Sprintf("Could not open %s: %v", a.Route.Title, err))
			}
			fallback := a.Route.Fallback
			if fallback == "" {
				fallback = RouteDashboard
			}
			n.deny(a, Location{Route: fallback})
			return
		}
	}

	// commit
	n.mu.Lock()
	if n.current != a {
		n.mu.Unlock()
		a.setState(AttemptState{Phase: PhaseSuperseded})
		return
	}
	n.current = nil
	n.data = data
	n.mu.Unlock()

	a.data = data
	a.setState(AttemptState{Phase: PhaseAllowed})
	n.location.Set(a.Target)
}

// deny finalizes a as Denied and replaces the navigation with one to the
// redirect target. A redirect back to where the attempt started means the
// navigation was cancelled: the navigator stays put.
func (n *Navigator) deny(a *Attempt, target Location) {
	n.mu.Lock()
	if n.current == a {
		n.current = nil
	}
	stale := n.current != nil // a newer attempt took over meanwhile
	n.mu.Unlock()

	redirect := target
	a.setState(AttemptState{Phase: PhaseDenied, Redirect: &redirect})

	if stale || target.Equal(a.From) {
		return
	}
	n.Navigate(target.Route, target.Params)
}
