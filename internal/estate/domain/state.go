package domain

// PropertyState is the lifecycle state of a property.
type PropertyState string

const (
	StateNew           PropertyState = "new"
	StateOfferReceived PropertyState = "offer_received"
	StateOfferAccepted PropertyState = "offer_accepted"
	StateCanceled      PropertyState = "canceled"
	StateSold          PropertyState = "sold"
)

// IsValid checks if the PropertyState is one of the defined constants.
func (s PropertyState) IsValid() bool {
	switch s {
	case StateNew, StateOfferReceived, StateOfferAccepted, StateCanceled, StateSold:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s PropertyState) IsTerminal() bool {
	return s == StateCanceled || s == StateSold
}

func (s PropertyState) rank() int {
	switch s {
	case StateNew:
		return 0
	case StateOfferReceived:
		return 1
	case StateOfferAccepted:
		return 2
	case StateCanceled, StateSold:
		return 3
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next keeps the lifecycle
// monotonic. Staying in the same state is allowed; canceled and sold never
// lead to each other.
func (s PropertyState) CanTransitionTo(next PropertyState) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	return next.rank() > s.rank()
}
