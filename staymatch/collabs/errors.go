package collabs

import "errors"

var (
	// ErrNotFound is returned when no collaboration exists for an id
	ErrNotFound = errors.New("collaboration not found")

	// ErrDeliverableNotFound is returned when a deliverable id does not
	// belong to the collaboration
	ErrDeliverableNotFound = errors.New("deliverable not found")

	// ErrNotParticipant is returned when the caller is neither party
	ErrNotParticipant = errors.New("caller is not a party to this collaboration")

	// ErrTerminalState rejects mutation of declined, completed or
	// cancelled collaborations
	ErrTerminalState = errors.New("collaboration is in a terminal state")

	// ErrStaleTermsVersion rejects operations made against an outdated
	// terms version assumption; the caller must refetch and retry
	ErrStaleTermsVersion = errors.New("terms version is stale")

	// ErrInvalidTransition rejects operations not defined for the
	// collaboration's current status
	ErrInvalidTransition = errors.New("operation not valid in current status")

	// ErrNotAllowed rejects operations reserved for the other party
	ErrNotAllowed = errors.New("operation not allowed for this party")
)
