package domain

// Session is the gateway's record of who is logged in for one browser.
//
// Loading is true only while a bootstrap or login call is in flight. User is
// non-nil only while a token is stored for the session.
type Session struct {
	User    *User  `json:"user"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Authenticated reports whether the session has settled on a user.
func (s Session) Authenticated() bool {
	return !s.Loading && s.User != nil
}

// Outcome is what a guarded route does for a given session.
type Outcome int

const (
	// OutcomePlaceholder renders a neutral loading indicator. No redirect.
	OutcomePlaceholder Outcome = iota
	// OutcomeRender renders the requested screen.
	OutcomeRender
	// OutcomeRedirect sends the browser to the landing screen.
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaceholder:
		return "placeholder"
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Guard decides the outcome of a guarded route. Loading is the only
// transient state; it always resolves once bootstrap finishes.
func Guard(s Session) Outcome {
	switch {
	case s.Loading:
		return OutcomePlaceholder
	case s.Authenticated():
		return OutcomeRender
	default:
		return OutcomeRedirect
	}
}
