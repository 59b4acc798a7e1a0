package domain

// Session is the resolved authentication state of one client. A nil Identity
// means the client is anonymous.
type Session struct {
	ID       string
	Identity *Identity
}

// Authenticated reports whether the session carries an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil
}

// HasRole is false without an identity, otherwise true iff the identity's
// role is one of allowed.
func (s *Session) HasRole(allowed ...Role) bool {
	if !s.Authenticated() {
		return false
	}
	for _, r := range allowed {
		if s.Identity.Role == r {
			return true
		}
	}
	return false
}

// GuardState is the access guard's view of a navigation attempt.
type GuardState int

const (
	// GuardUnresolved is transient: the session record has not been read yet.
	GuardUnresolved GuardState = iota
	GuardAuthenticated
	GuardUnauthenticated
)

func (g GuardState) String() string {
	switch g {
	case GuardUnresolved:
		return "unresolved"
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a page load's resolution.
func (g GuardState) Terminal() bool {
	return g == GuardAuthenticated || g == GuardUnauthenticated
}

// GuardStateOf maps a resolved session to its terminal guard state.
func GuardStateOf(s *Session) GuardState {
	if s.Authenticated() {
		return GuardAuthenticated
	}
	return GuardUnauthenticated
}
