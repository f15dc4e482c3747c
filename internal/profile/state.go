package profile

// State is the setup state machine: Unconfigured until a valid profile is saved,
// then Configured for good.
type State int

const (
	Unconfigured State = iota
	Configured
)

func (s State) String() string {
	if s == Configured {
		return "configured"
	}
	return "unconfigured"
}

// Display is what the listings area shows underneath the setup prompt.
type Display int

const (
	ProfileRequired Display = iota
	ListingsAvailable
)

func (d Display) String() string {
	if d == ListingsAvailable {
		return "listings_available"
	}
	return "profile_required"
}

// StateOf derives the state from a stored profile.
func StateOf(p Profile) State {
	if p.Validate() == nil {
		return Configured
	}
	return Unconfigured
}

// DisplayOf mirrors the page's status badge: course, period and at least one
// area make the listings visible.
func DisplayOf(p Profile) Display {
	if p.CanScore() {
		return ListingsAvailable
	}
	return ProfileRequired
}

// Transition returns the state after a profile submission. Invalid
// submissions leave the state unchanged; Configured never reverts.
func Transition(current State, submitted Profile) State {
	if current == Configured {
		return Configured
	}
	return StateOf(submitted)
}
