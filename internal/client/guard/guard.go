// Package guard decides, per navigation, whether a view renders or the
// user is redirected, based only on the cached session state.
package guard

import "strings"

// Route is a view path such as "/notes".
type Route string

const (
	Home           Route = "/"
	Login          Route = "/login"
	Register       Route = "/register"
	VerifyEmail    Route = "/verify-email"
	ForgotPassword Route = "/forgot-password"
	ResetPassword  Route = "/reset-password"
	Notes          Route = "/notes"
)

// Group tells whether a route needs a session.
type Group int

const (
	Unknown Group = iota
	Public
	Protected
)

var groups = map[Route]Group{
	Home:           Public,
	Login:          Public,
	Register:       Public,
	VerifyEmail:    Public,
	ForgotPassword: Public,
	ResetPassword:  Public,
	Notes:          Protected,
}

// Normalize drops the query string, fragment and trailing slash of path.
func Normalize(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}
	return Route(path)
}

// GroupOf returns the group of r after normalizing it. Routes outside the
// table are Unknown.
func GroupOf(r Route) Group {
	return groups[Normalize(string(r))]
}

// Decision is either Render or a redirect target.
type Decision struct {
	Render   bool
	Redirect Route
}

// Decide is the guard rule:
//   - public routes render when signed out and redirect to Notes when signed in;
//   - protected routes render when signed in and redirect to Home otherwise;
//   - unknown routes redirect to Home.
func Decide(r Route, authenticated bool) Decision {
	switch GroupOf(r) {
	case Public:
		if authenticated {
			return Decision{Redirect: Notes}
		}
		return Decision{Render: true}
	case Protected:
		if authenticated {
			return Decision{Render: true}
		}
		return Decision{Redirect: Home}
	default:
		return Decision{Redirect: Home}
	}
}

// Authenticator reports whether a session is active.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard evaluates Decide against a live session.
type Guard struct {
	auth Authenticator
}

// New returns a guard reading the session state from a.
func New(a Authenticator) *Guard {
	return &Guard{auth: a}
}

// Check applies Decide to r with the current session state.
func (g *Guard) Check(r Route) Decision {
	return Decide(r, g.auth.IsAuthenticated())
}

// Resolve follows redirects until a route renders.
func (g *Guard) Resolve(r Route) Route {
	authenticated := g.auth.IsAuthenticated()
	for range len(groups) {
		d := Decide(r, authenticated)
		if d.Render {
			return Normalize(string(r))
		}
		r = d.Redirect
	}
	return Home
}
