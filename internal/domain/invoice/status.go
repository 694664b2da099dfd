package invoice

import "github.com/purchase-invoice/backend/internal/domain/shared"

// Status is the persisted state of an invoice.
// There is no pending state: the decision is made at creation.
type Status string

const (
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// AllStatuses lists every persisted status
var AllStatuses = []Status{StatusApproved, StatusRejected, StatusCancelled}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

// String returns the status name
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string into a Status
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Status must be one of APPROVED, REJECTED, CANCELLED")
	}
	return st, nil
}

// Event is an input to the invoice state machine
type Event string

const (
	// EventCancel is raised by the owner asking to withdraw the invoice
	EventCancel Event = "CANCEL"
)

// transitions holds every allowed (from, event) pair.
// APPROVED and CANCELLED accept no events.
var transitions = map[Status]map[Event]Status{
	StatusRejected: {
		EventCancel: StatusCancelled,
	},
}

// Transition returns the state reached from `from` on `ev`. A refused
// cancel yields an INVOICE_CANNOT_BE_CANCELLED error naming `from`.
// Ownership is checked before the transition is attempted.
func Transition(from Status, ev Event) (Status, error) {
	if next, ok := transitions[from][ev]; ok {
		return next, nil
	}
	switch ev {
	case EventCancel:
		return from, NewCannotBeCancelledError(from)
	default:
		return from, shared.NewDomainError("INVALID_STATE", "Unknown invoice event: "+string(ev))
	}
}

// CanTransition reports whether ev is accepted in state from
func CanTransition(from Status, ev Event) bool {
	_, ok := transitions[from][ev]
	return ok
}
