package guard

// Policy is the audience a page declares.
type Policy int

const (
	// RequireAuthenticated pages redirect anonymous callers to the login page.
	RequireAuthenticated Policy = iota
	// RequireGuest pages redirect signed-in callers to the landing page.
	RequireGuest
)

func (p Policy) String() string {
	if p == RequireGuest {
		return "guest"
	}
	return "authenticated"
}

// State is the result of one evaluation.
type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

// String renders the value the page shell shows while deciding what to draw.
func (s State) String() string {
	switch s {
	case Authenticated:
		return "true"
	case Unauthenticated:
		return "false"
	default:
		return "pending"
	}
}

// Resolved reports whether evaluation has produced an answer.
func (s State) Resolved() bool {
	return s != Unknown
}
