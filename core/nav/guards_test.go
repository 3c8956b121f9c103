package nav_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/confirm"
	. "github.com/trezcool/darasa/core/nav"
	"github.com/trezcool/darasa/core/user"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

type testDirtyReporter struct{ dirty bool }

func (r *testDirtyReporter) HasUnsavedChanges() bool { return r.dirty }

func newTestAuth(t *testing.T) (*user.Auth, user.Repository) {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewUserRepository(db)
	svc := user.NewService(repo)
	auth := user.NewAuth(svc, &testutil.MemSessionStore{}, testutil.Logger{T: t})
	return auth, repo
}

func login(t *testing.T, auth *user.Auth, repo user.Repository, uname string, roles []string) {
	t.Helper()
	testutil.CreateUser(t, repo, uname, uname, uname+"@darasa.app", "Tabia.Nzuri:21", roles, true)
	if _, err := auth.Login(uname, "Tabia.Nzuri:21"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestAuthenticationGuard(t *testing.T) {
	auth, repo := newTestAuth(t)
	g := NewAuthenticationGuard(auth)
	ctx := context.Background()

	publicAttempt := &Attempt{Route: Route{Name: RouteLogin, Public: true}}
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, publicAttempt).Kind)

	protected := &Attempt{Route: Route{Name: RouteCourses}}
	d := g.Evaluate(ctx, protected)
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, RouteLogin, d.Target.Route)

	login(t, auth, repo, "mwalimu", user.InstructorRoles)
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, protected).Kind)
}

func TestAuthorizationGuard(t *testing.T) {
	auth, repo := newTestAuth(t)
	g := NewAuthorizationGuard(auth)
	ctx := context.Background()

	open := &Attempt{Route: Route{Name: RouteCourses}}
	adminOnly := &Attempt{Route: Route{Name: RouteAdminUsers, RequiredRoles: []string{user.RoleAdmin}}}
	staff := &Attempt{Route: Route{Name: RouteCourseCreate, RequiredRoles: []string{user.RoleAdmin, user.RoleInstructor}}}

	// no required roles: any state passes
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, open).Kind)

	// anonymous goes to login, not forbidden
	d := g.Evaluate(ctx, adminOnly)
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, RouteLogin, d.Target.Route)

	login(t, auth, repo, "mwanafunzi", user.StudentRoles)
	d = g.Evaluate(ctx, adminOnly)
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, RouteForbidden, d.Target.Route)

	// holding any one of the expected role groups is enough
	auth.Logout()
	login(t, auth, repo, "mwalimu", user.InstructorRoles)
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, staff).Kind)
	d = g.Evaluate(ctx, adminOnly)
	assert.Equal(t, DecisionRedirect, d.Kind)
	assert.Equal(t, RouteForbidden, d.Target.Route)

	auth.Logout()
	login(t, auth, repo, "mkuu", []string{user.RoleAdminOwner})
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, adminOnly).Kind, "admin:owner must match the admin: group")
}

func TestUnsavedChangesGuard(t *testing.T) {
	ctx := context.Background()
	wf := confirm.NewWorkflow()
	rep := &testDirtyReporter{}
	var current DirtyReporter = rep
	g := NewUnsavedChangesGuard(wf, func() DirtyReporter { return current })

	from := Location{Route: RouteCourseEdit, Params: Params{"id": "1"}}
	away := &Attempt{From: from, Target: Location{Route: RouteCourses}}

	// clean form: pass through without a prompt
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, away).Kind)

	// no reporter registered: nothing to protect
	rep.dirty = true
	current = nil
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, away).Kind)
	current = rep

	// re-navigation to the same location never prompts
	same := &Attempt{From: from, Target: Location{Route: RouteCourseEdit, Params: Params{"id": "1"}}}
	assert.Equal(t, DecisionAllow, g.Evaluate(ctx, same).Kind)

	// dirty: suspend on a prompt; confirming leaves
	d := g.Evaluate(ctx, away)
	assert.Equal(t, DecisionPending, d.Kind)
	done := make(chan Decision, 1)
	go func() { done <- d.Wait(ctx) }()
	assert.Eventually(t, func() bool { return wf.Active().Get() != nil }, waitFor, tick)
	assert.True(t, wf.Active().Get().Confirm())
	assert.Equal(t, DecisionAllow, (<-done).Kind)

	// declining redirects back to where the attempt started
	d = g.Evaluate(ctx, away)
	assert.Equal(t, DecisionPending, d.Kind)
	go func() { done <- d.Wait(ctx) }()
	assert.Eventually(t, func() bool { return wf.Active().Get() != nil }, waitFor, tick)
	wf.Active().Get().Cancel()
	res := <-done
	assert.Equal(t, DecisionRedirect, res.Kind)
	assert.Equal(t, from, res.Target)
}
