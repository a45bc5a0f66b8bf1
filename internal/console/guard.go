package console

import (
	"net/url"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// Decision is the route guard's verdict for a navigation attempt.
type Decision int

const (
	// DecisionPending means auth state is still resolving; render nothing.
	DecisionPending Decision = iota
	// DecisionDenied means the user may not see the route; follow Redirect.
	DecisionDenied
	// DecisionGranted means the protected subtree may render.
	DecisionGranted
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionDenied:
		return "denied"
	case DecisionGranted:
		return "granted"
	default:
		return "unknown"
	}
}

// AuthState is the guard's view of the current authentication context.
// Resolved is false while the session is still being loaded.
type AuthState struct {
	Resolved bool
	User     *SessionUser
}

// GuardResult is a Decision plus, when denied, the path to redirect to.
type GuardResult struct {
	Decision Decision
	Redirect string
}

// Evaluate gates a route allowing only the listed roles. It is pure: the same
// inputs always produce the same result, and the only output is the decision
// and redirect target.
//
// An unauthenticated user is sent to the public entry path with the origin
// preserved for a post-login redirect. A user whose role is not allowed is
// sent to their own dashboard rather than an error page, so restricted
// routes are indistinguishable from nonexistent ones.
func Evaluate(state AuthState, origin string, allowed ...domain.Role) GuardResult {
	if !state.Resolved {
		return GuardResult{Decision: DecisionPending}
	}

	if state.User == nil {
		target := "/"
		if origin != "" && origin != "/" {
			target = "/?redirect=" + url.QueryEscape(origin)
		}
		return GuardResult{Decision: DecisionDenied, Redirect: target}
	}

	if !state.User.Role.In(allowed...) {
		return GuardResult{
			Decision: DecisionDenied,
			Redirect: domain.DashboardPath(state.User.Role),
		}
	}

	return GuardResult{Decision: DecisionGranted}
}

// AuthStateFromStore builds a resolved AuthState from the session store.
func AuthStateFromStore(store Store) AuthState {
	session, ok := store.Session()
	if !ok {
		return AuthState{Resolved: true}
	}
	user := session.User
	return AuthState{Resolved: true, User: &user}
}
