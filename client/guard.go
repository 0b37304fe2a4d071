package client

import "github.com/lord-einar/megasys/internal/permissions"

// Route declares what a destination requires. Zero values mean no
// requirement: an empty Resource skips the capability check, an empty
// RequiredRole skips the role check.
type Route struct {
	Name         string
	Public       bool
	Resource     string
	Action       string
	RequiredRole permissions.Role
}

// Decision is the guard's verdict for a navigation attempt.
type Decision int

const (
	// DecisionLoading defers the verdict; the session is still resolving and
	// neither granting nor redirecting would be safe yet.
	DecisionLoading Decision = iota
	DecisionAllow
	// DecisionRedirectLogin sends an unauthenticated visitor to login.
	DecisionRedirectLogin
	// DecisionDenied refuses an authenticated user who lacks the capability.
	DecisionDenied
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionDenied:
		return "denied"
	default:
		return "denied"
	}
}

// Guard decides route access from the current session. It is declarative:
// callers describe the route, the guard applies the session state and the
// capability table.
type Guard struct {
	sessions *SessionStore
}

func NewGuard(sessions *SessionStore) *Guard {
	return &Guard{sessions: sessions}
}

func (g *Guard) Decide(route Route) Decision {
	session := g.sessions.Current()

	if session.Loading {
		return DecisionLoading
	}
	if route.Public {
		return DecisionAllow
	}
	if !session.IsAuthenticated() {
		return DecisionRedirectLogin
	}

	role := session.User.Role
	if route.RequiredRole != "" && role != route.RequiredRole && role != permissions.RoleSuperAdmin {
		return DecisionDenied
	}
	if route.Resource != "" && !permissions.Allowed(role, route.Resource, route.Action) {
		return DecisionDenied
	}
	return DecisionAllow
}
