package domain

// Status is the invoice workflow state. Values match what finance staff
// see on screen, so they are stored verbatim.
type Status string

const (
	StatusNew            Status = "New"
	StatusInProcess      Status = "In Process"
	StatusReadyToPayment Status = "Ready To Payment"
	StatusPaid           Status = "Paid"
	StatusRejected       Status = "Rejected"
)

// transitions is the closed transition table. Paid and Rejected are
// terminal; Rejected is reachable from every non-terminal state.
var transitions = map[Status][]Status{
	StatusNew:            {StatusInProcess, StatusReadyToPayment, StatusRejected},
	StatusInProcess:      {StatusReadyToPayment, StatusRejected},
	StatusReadyToPayment: {StatusPaid, StatusRejected},
}

// Valid reports whether s is a known workflow state.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProcess, StatusReadyToPayment, StatusPaid, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusRejected
}

// CanTransition reports whether from → to is an allowed transition.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
