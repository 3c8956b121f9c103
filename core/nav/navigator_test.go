package nav_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/confirm"
	"github.com/trezcool/darasa/core/course"
	. "github.com/trezcool/darasa/core/nav"
	"github.com/trezcool/darasa/core/user"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	testutil "github.com/trezcool/darasa/tests"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type testNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *testNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *testNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs)
}

// countingCourseRepo records reads so tests can assert a lookup never happened.
type countingCourseRepo struct {
	course.Repository
	mu   sync.Mutex
	gets int
}

func (r *countingCourseRepo) GetCourseByID(id int) (course.Course, error) {
	r.mu.Lock()
	r.gets++
	r.mu.Unlock()
	return r.Repository.GetCourseByID(id)
}

func (r *countingCourseRepo) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

type navFixture struct {
	nav      *Navigator
	auth     *user.Auth
	userRepo user.Repository
	crsRepo  *countingCourseRepo
	crsSvc   *course.Service
	workflow *confirm.Workflow
	notifier *testNotifier
}

func newNavFixture(t *testing.T) *navFixture {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	userRepo := inmemdb.NewUserRepository(db)
	crsRepo := &countingCourseRepo{Repository: inmemdb.NewCourseRepository(db)}
	crsSvc := course.NewService(crsRepo)
	auth := user.NewAuth(user.NewService(userRepo), &testutil.MemSessionStore{}, testutil.Logger{T: t})
	wf := confirm.NewWorkflow()
	notifier := &testNotifier{}

	router := NewRouter(
		Route{Name: RouteLogin, Title: "Log In", Public: true},
		Route{Name: RouteDashboard, Title: "Dashboard"},
		Route{Name: RouteForbidden, Title: "Forbidden"},
		Route{Name: RouteCourses, Title: "Courses"},
		Route{
			Name:          RouteCourseCreate,
			Title:         "New Course",
			RequiredRoles: []string{user.RoleAdmin, user.RoleInstructor},
		},
		Route{
			Name:          RouteCourseEdit,
			Title:         "Edit Course",
			RequiredRoles: []string{user.RoleAdmin, user.RoleInstructor},
			Resolve:       course.Resolver(crsSvc),
			Fallback:      RouteCourses,
		},
		Route{Name: RouteAdminUsers, Title: "Users", RequiredRoles: []string{user.RoleAdmin}},
	)

	return &navFixture{
		nav:      NewNavigator(router, auth, wf, testutil.Logger{T: t}, notifier, Location{Route: RouteLogin}),
		auth:     auth,
		userRepo: userRepo,
		crsRepo:  crsRepo,
		crsSvc:   crsSvc,
		workflow: wf,
		notifier: notifier,
	}
}

func (f *navFixture) login(t *testing.T, uname string, roles []string) {
	t.Helper()
	login(t, f.auth, f.userRepo, uname, roles)
}

func (f *navFixture) waitLocation(t *testing.T, route string) {
	t.Helper()
	assert.Eventually(t, func() bool { return f.nav.Location().Get().Route == route }, waitFor, tick,
		"expected to land on %q, got %q", route, f.nav.Location().Get().Route)
}

func TestNavigatorCommitsAllowedNavigation(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)

	a := f.nav.Navigate(RouteCourses, nil)
	<-a.Done()
	assert.Equal(t, PhaseAllowed, a.State().Phase)
	assert.Equal(t, RouteCourses, f.nav.Location().Get().Route)
}

func TestNavigatorRedirectsAnonymousToLogin(t *testing.T) {
	f := newNavFixture(t)

	a := f.nav.Navigate(RouteDashboard, nil)
	<-a.Done()
	assert.Equal(t, PhaseDenied, a.State().Phase)
	assert.Equal(t, RouteLogin, a.State().Redirect.Route)
	f.waitLocation(t, RouteLogin)
}

func TestNavigatorRedirectsUnderPrivilegedToForbidden(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwanafunzi", user.StudentRoles)

	a := f.nav.Navigate(RouteAdminUsers, nil)
	<-a.Done()
	assert.Equal(t, PhaseDenied, a.State().Phase)
	assert.Equal(t, RouteForbidden, a.State().Redirect.Route)
	f.waitLocation(t, RouteForbidden)
}

func TestNavigatorAllowsAnyMatchingRoleGroup(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)

	a := f.nav.Navigate(RouteCourseCreate, nil)
	<-a.Done()
	assert.Equal(t, PhaseAllowed, a.State().Phase)
}

func TestNavigatorUnknownRouteFallsBackToDashboard(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)

	a := f.nav.Navigate("no/such/view", nil)
	<-a.Done()
	f.waitLocation(t, RouteDashboard)
}

func TestNavigatorResolvesRouteData(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)
	crs := testutil.CreateCourse(t, f.crsRepo, "Kiswahili kwa Wageni", "Languages", course.DifficultyBeginner, "Neema Juma", true)

	a := f.nav.Navigate(RouteCourseEdit, Params{"id": "1"})
	<-a.Done()
	assert.Equal(t, PhaseAllowed, a.State().Phase)
	got, ok := a.Data().(course.Course)
	if assert.True(t, ok, "resolved data should be a course") {
		assert.Equal(t, crs.ID, got.ID)
		assert.Equal(t, crs.Title, got.Title)
	}
	assert.Equal(t, got, f.nav.Data())
}

func TestNavigatorRejectsMalformedIDWithoutLookup(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)
	testutil.CreateCourse(t, f.crsRepo, "Hisabati", "Science", course.DifficultyIntermediate, "Neema Juma", true)

	for _, id := range []string{"abc", "0", "-5", "1.5", ""} {
		a := f.nav.Navigate(RouteCourseEdit, Params{"id": id})
		<-a.Done()
		assert.Equal(t, PhaseDenied, a.State().Phase, "id=%q", id)
		f.waitLocation(t, RouteCourses)
	}
	assert.Equal(t, 0, f.crsRepo.getCount(), "malformed ids must never reach the repository")
	assert.Equal(t, 5, f.notifier.count())
}

func TestNavigatorRedirectsOnResolverFailure(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)

	a := f.nav.Navigate(RouteCourseEdit, Params{"id": "42"}) // no such course
	<-a.Done()
	assert.Equal(t, PhaseDenied, a.State().Phase)
	f.waitLocation(t, RouteCourses)
	assert.Equal(t, 1, f.crsRepo.getCount())
	assert.Equal(t, 1, f.notifier.count())
}

func TestNavigatorUnsavedChangesFlow(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)

	a := f.nav.Navigate(RouteCourseCreate, nil)
	<-a.Done()

	rep := &testDirtyReporter{dirty: true}
	f.nav.SetDirtyReporter(rep)

	// staying: declining the prompt cancels the navigation, edits intact
	a = f.nav.Navigate(RouteCourses, nil)
	assert.Eventually(t, func() bool { return f.workflow.Active().Get() != nil }, waitFor, tick)
	assert.Equal(t, PhasePending, a.State().Phase)
	f.workflow.Active().Get().Cancel()
	<-a.Done()
	assert.Equal(t, PhaseDenied, a.State().Phase)
	assert.Equal(t, RouteCourseCreate, f.nav.Location().Get().Route)
	assert.True(t, rep.HasUnsavedChanges(), "declining must not touch the form")

	// leaving: confirming discards and commits the navigation
	a = f.nav.Navigate(RouteCourses, nil)
	assert.Eventually(t, func() bool { return f.workflow.Active().Get() != nil }, waitFor, tick)
	assert.True(t, f.workflow.Active().Get().Confirm())
	<-a.Done()
	assert.Equal(t, PhaseAllowed, a.State().Phase)
	f.waitLocation(t, RouteCourses)
}

func TestNavigatorSupersedesPendingAttempt(t *testing.T) {
	f := newNavFixture(t)
	f.login(t, "mwalimu", user.InstructorRoles)

	a := f.nav.Navigate(RouteCourseCreate, nil)
	<-a.Done()
	f.nav.SetDirtyReporter(&testDirtyReporter{dirty: true})

	first := f.nav.Navigate(RouteCourses, nil)
	assert.Eventually(t, func() bool { return f.workflow.Active().Get() != nil }, waitFor, tick)

	// a newer navigation cancels the suspended one along with its prompt
	f.nav.ClearDirtyReporter()
	second := f.nav.Navigate(RouteDashboard, nil)
	<-first.Done()
	<-second.Done()
	assert.Equal(t, PhaseSuperseded, first.State().Phase)
	assert.Equal(t, PhaseAllowed, second.State().Phase)
	f.waitLocation(t, RouteDashboard)
	assert.Eventually(t, func() bool { return f.workflow.Active().Get() == nil }, waitFor, tick)
}
