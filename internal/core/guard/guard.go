// Package guard decides whether a navigation may proceed, based on the
// session and the resolved profile's role.
package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/session"
)

// Application routes.
const (
	RouteLogin        = "/auth/login"
	RouteRegister     = "/auth/register"
	RouteHome         = "/tabs/home"
	RouteSearch       = "/tabs/search"
	RouteProfile      = "/tabs/profile"
	RouteDetail       = "/announcement/:id"
	RouteDashboard    = "/official-dashboard"
	RouteAnnouncement = "/announcement-form"
)

// Route describes what a screen requires before it can be shown.
type Route struct {
	Path         string
	RequiresAuth bool
	// Role, when set, restricts the route to profiles with that role.
	Role domain.Role
}

// Routes is the application's route table.
var Routes = []Route{
	{Path: RouteLogin},
	{Path: RouteRegister},
	{Path: RouteHome, RequiresAuth: true, Role: domain.RoleResident},
	{Path: RouteSearch, RequiresAuth: true, Role: domain.RoleResident},
	{Path: RouteProfile, RequiresAuth: true, Role: domain.RoleResident},
	{Path: RouteDetail, RequiresAuth: true},
	{Path: RouteDashboard, RequiresAuth: true, Role: domain.RoleOfficial},
	{Path: RouteAnnouncement, RequiresAuth: true, Role: domain.RoleOfficial},
}

// Decision is the outcome of evaluating a route.
type Decision struct {
	Allow    bool
	Redirect string
}

var allow = Decision{Allow: true}

// HomeFor returns the landing route for a role.
func HomeFor(role domain.Role) string {
	if role == domain.RoleOfficial {
		return RouteDashboard
	}
	return RouteHome
}

// Decide applies the gating rules to an already resolved session:
// no identity redirects to login; a role mismatch redirects to the
// profile's own home; anything else proceeds. A route with a role
// requirement and a nil profile is denied to login, so callers that can
// wait for the profile must do so before calling Decide.
func Decide(identity *domain.Identity, profile *domain.UserProfile, route Route) Decision {
	if !route.RequiresAuth && route.Role == "" {
		return allow
	}
	if identity == nil {
		return Decision{Redirect: RouteLogin}
	}
	if route.Role == "" {
		return allow
	}
	if profile == nil {
		return Decision{Redirect: RouteLogin}
	}
	if profile.Role != route.Role {
		return Decision{Redirect: HomeFor(profile.Role)}
	}
	return allow
}

// DeniedError carries a negative Decision across an error boundary, such as
// an HTTP middleware. It unwraps to domain.ErrUnauthenticated when the
// redirect is the login route and to domain.ErrForbidden otherwise.
type DeniedError struct {
	Redirect string
}

func (e *DeniedError) Error() string {
	return "navigation denied, redirect to " + e.Redirect
}

func (e *DeniedError) Unwrap() error {
	if e.Redirect == RouteLogin {
		return domain.ErrUnauthenticated
	}
	return domain.ErrForbidden
}

// Err returns nil for an allowing decision and a *DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allow {
		return nil
	}
	return &DeniedError{Redirect: d.Redirect}
}

// Check is one link of the navigation chain.
type Check func(ctx context.Context, route Route) (Decision, error)

// RequireSession denies navigation when no identity is signed in.
func RequireSession(store *session.Store) Check {
	return func(ctx context.Context, route Route) (Decision, error) {
		if !route.RequiresAuth {
			return allow, nil
		}
		st, err := store.WaitResolved(ctx)
		if err != nil {
			return Decision{}, err
		}
		return Decide(st.Identity, nil, Route{Path: route.Path, RequiresAuth: true}), nil
	}
}

// RequireRole waits until the profile is loaded (or the session ends) and
// then applies the role rule. A pending profile lookup never causes a
// redirect; only ctx expiry does.
func RequireRole(store *session.Store) Check {
	return func(ctx context.Context, route Route) (Decision, error) {
		if route.Role == "" {
			return allow, nil
		}
		st, err := store.WaitFor(ctx, func(s session.State) bool {
			return !s.SignedIn() || s.Profile != nil
		})
		if err != nil {
			return Decision{}, err
		}
		return Decide(st.Identity, st.Profile, route), nil
	}
}

// ErrUnknownRoute is returned for paths missing from the route table.
var ErrUnknownRoute = errors.New("unknown route")

// ErrRedirectLoop is returned when redirects do not settle.
var ErrRedirectLoop = errors.New("redirect loop")

const maxRedirects = 4

// Navigator resolves navigation requests through a chain of checks.
type Navigator struct {
	routes  []Route
	checks  []Check
	current string
}

// NewNavigator builds a Navigator over routes with checks evaluated in order.
func NewNavigator(routes []Route, checks ...Check) *Navigator {
	return &Navigator{routes: routes, checks: checks, current: RouteLogin}
}

// Current returns the path of the screen currently shown.
func (n *Navigator) Current() string { return n.current }

// Navigate runs the check chain for path, following redirects, and returns
// the path that was finally reached.
func (n *Navigator) Navigate(ctx context.Context, path string) (string, error) {
	target := path
	for range maxRedirects {
		route, ok := n.match(target)
		if !ok {
			return n.current, fmt.Errorf("navigate %s: %w", target, ErrUnknownRoute)
		}

		d, err := n.evaluate(ctx, route)
		if err != nil {
			return n.current, fmt.Errorf("navigate %s: %w", target, err)
		}
		if d.Allow {
			n.current = target
			return target, nil
		}
		target = d.Redirect
	}
	return n.current, fmt.Errorf("navigate %s: %w", path, ErrRedirectLoop)
}

func (n *Navigator) evaluate(ctx context.Context, route Route) (Decision, error) {
	for _, check := range n.checks {
		d, err := check(ctx, route)
		if err != nil || !d.Allow {
			return d, err
		}
	}
	return allow, nil
}

// match finds the route for a concrete path. A ":param" segment matches any
// single non-empty segment.
func (n *Navigator) match(path string) (Route, bool) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for _, r := range n.routes {
		pattern := strings.Split(strings.Trim(r.Path, "/"), "/")
		if len(pattern) != len(segs) {
			continue
		}
		matched := true
		for i, p := range pattern {
			if strings.HasPrefix(p, ":") {
				if segs[i] == "" {
					matched = false
					break
				}
				continue
			}
			if p != segs[i] {
				matched = false
				break
			}
		}
		if matched {
			return r, true
		}
	}
	return Route{}, false
}

// DetailPath builds the concrete detail route for an announcement id.
func DetailPath(id string) string {
	return strings.Replace(RouteDetail, ":id", id, 1)
}
