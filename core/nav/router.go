package nav

import (
	"context"
	"sync"
)

// Well-known route names.
const (
	RouteLogin        = "auth/login"
	RouteDashboard    = "dashboard"
	RouteForbidden    = "forbidden"
	RouteCourses      = "courses"
	RouteCourseCreate = "courses/create"
	RouteCourseEdit   = "courses/edit"
	RouteAdminUsers   = "admin/users"
)

// Params carries route parameters (e.g. the course id for an edit view).
type Params map[string]string

// ResolverFunc loads the data a route needs before its view activates.
// A failure vetoes the activation; the navigator redirects to the route's
// fallback instead, so the view never observes a missing required entity.
type ResolverFunc func(ctx context.Context, params Params) (interface{}, error)

// Route declares a navigation target.
type Route struct {
	Name  string
	Title string
	// Public routes are reachable without a session (e.g. the login view).
	Public bool
	// RequiredRoles gates the route to users holding at least one of the
	// given role groups. Empty means any logged in user.
	RequiredRoles []string
	Resolve       ResolverFunc
	// Fallback is where a failed Resolve redirects; RouteDashboard when empty.
	Fallback string
}

// Location is a committed or requested navigation position.
type Location struct {
	Route  string
	Params Params
}

func (l Location) Equal(other Location) bool {
	if l.Route != other.Route || len(l.Params) != len(other.Params) {
		return false
	}
	for k, v := range l.Params {
		if other.Params[k] != v {
			return false
		}
	}
	return true
}

// Router is the route registry.
type Router struct {
	mu     sync.RWMutex
	routes map[string]Route
}

func NewRouter(routes ...Route) *Router {
	r := &Router{routes: make(map[string]Route, len(routes))}
	for _, rt := range routes {
		r.Register(rt)
	}
	return r
}

func (r *Router) Register(rt Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[rt.Name] = rt
}

func (r *Router) Get(name string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.routes[name]
	return rt, ok
}
