package nav

import (
	"context"

	"github.com/trezcool/darasa/core/confirm"
	"github.com/trezcool/darasa/core/user"
)

type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionRedirect
	DecisionPending
)

// Decision is a guard's verdict on a navigation attempt. A Pending decision
// suspends the pipeline until Wait resolves to Allow or Redirect.
type Decision struct {
	Kind   DecisionKind
	Target Location
	Wait   func(ctx context.Context) Decision
}

func Allow() Decision {
	return Decision{Kind: DecisionAllow}
}

func Redirect(target Location) Decision {
	return Decision{Kind: DecisionRedirect, Target: target}
}

func Pending(wait func(ctx context.Context) Decision) Decision {
	return Decision{Kind: DecisionPending, Wait: wait}
}

// Guard is a single check a navigation attempt must pass before committing.
type Guard interface {
	Name() string
	Evaluate(ctx context.Context, a *Attempt) Decision
}

// DirtyReporter is implemented by views (form trackers) that may hold
// unsaved changes.
type DirtyReporter interface {
	HasUnsavedChanges() bool
}

// AuthenticationGuard redirects anonymous users to the login view.
type AuthenticationGuard struct {
	auth *user.Auth
}

func NewAuthenticationGuard(auth *user.Auth) *AuthenticationGuard {
	return &AuthenticationGuard{auth: auth}
}

func (g *AuthenticationGuard) Name() string { return "authentication" }

func (g *AuthenticationGuard) Evaluate(_ context.Context, a *Attempt) Decision {
	if a.Route.Public {
		return Allow()
	}
	if g.auth.Authenticated() {
		return Allow()
	}
	return Redirect(Location{Route: RouteLogin})
}

// AuthorizationGuard redirects users lacking the target's required roles to
// the forbidden view. Holding any one of the expected role groups is
// sufficient.
type AuthorizationGuard struct {
	auth *user.Auth
}

func NewAuthorizationGuard(auth *user.Auth) *AuthorizationGuard {
	return &AuthorizationGuard{auth: auth}
}

func (g *AuthorizationGuard) Name() string { return "authorization" }

func (g *AuthorizationGuard) Evaluate(_ context.Context, a *Attempt) Decision {
	if len(a.Route.RequiredRoles) == 0 {
		return Allow()
	}
	if !g.auth.Authenticated() {
		return Redirect(Location{Route: RouteLogin})
	}
	if g.auth.HasAnyRole(a.Route.RequiredRoles...) {
		return Allow()
	}
	return Redirect(Location{Route: RouteForbidden})
}

// UnsavedChangesGuard intercepts navigations away from a view with unsaved
// changes and suspends on a confirmation prompt. Declining redirects back to
// the current location, i.e. cancels the navigation.
type UnsavedChangesGuard struct {
	workflow *confirm.Workflow
	reporter func() DirtyReporter
}

func NewUnsavedChangesGuard(wf *confirm.Workflow, reporter func() DirtyReporter) *UnsavedChangesGuard {
	return &UnsavedChangesGuard{workflow: wf, reporter: reporter}
}

func (g *UnsavedChangesGuard) Name() string { return "unsaved-changes" }

func (g *UnsavedChangesGuard) Evaluate(_ context.Context, a *Attempt) Decision {
	if a.Target.Equal(a.From) {
		return Allow()
	}
	rep := g.reporter()
	if rep == nil || !rep.HasUnsavedChanges() {
		return Allow()
	}
	return Pending(func(ctx context.Context) Decision {
		p := g.workflow.Open(ctx, confirm.UnsavedChanges())
		res := <-p.Done()
		if res.Confirmed {
			return Allow()
		}
		return Redirect(a.From)
	})
}
