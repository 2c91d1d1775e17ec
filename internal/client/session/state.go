package session

import "github.com/dmitrijs2005/docsmith/internal/client/models"

type State int

const (
	// Unknown is the state until startup identity resolution finishes.
	Unknown State = iota
	Authenticated
	Anonymous
)

var states = []string{Unknown.String(), Authenticated.String(), Anonymous.String()}

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// Snapshot is a consistent view of the store at one instant.
type Snapshot struct {
	State   State
	Token   string
	User    *models.User
	Loading bool
}

// Decision is what a guarded command should do for a given State.
type Decision int

const (
	Wait Decision = iota
	Allow
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "invalid"
	}
}

// Guard maps a session state to a decision for a command that requires an
// authenticated user. Unknown never redirects: the caller waits for loading
// to finish instead.
func Guard(s State) Decision {
	switch s {
	case Authenticated:
		return Allow
	case Anonymous:
		return Redirect
	default:
		return Wait
	}
}
