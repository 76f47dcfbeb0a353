package session

// Gate is what a protected screen should show for a given session state.
type Gate int

const (
	GateLoading Gate = iota
	GateLoginRequired
	GateContent
)

// User-facing messages.
const (
	MsgLoading         = "Loading…"
	MsgLoginRequired   = "Please login to continue."
	MsgLoginFailed     = "Invalid email or password."
	MsgRegisterFailed  = "Registration failed. Try a different email."
	MsgTokenNotCleared = "Logged out, but the saved token could not be removed. Run logout again before exiting."
)

// Guard decides which gate applies. It is a pure function of s.
func Guard(s State) Gate {
	switch {
	case !s.Ready:
		return GateLoading
	case !s.Authenticated():
		return GateLoginRequired
	default:
		return GateContent
	}
}

// Placeholder returns the text shown in place of protected content, or ""
// for GateContent.
func (g Gate) Placeholder() string {
	switch g {
	case GateLoading:
		return MsgLoading
	case GateLoginRequired:
		return MsgLoginRequired
	default:
		return ""
	}
}

func (g Gate) String() string {
	switch g {
	case GateLoading:
		return "loading"
	case GateLoginRequired:
		return "login_required"
	case GateContent:
		return "content"
	default:
		return "unknown"
	}
}
