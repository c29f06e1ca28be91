package engine

import "errors"

// Request-level failures. Slot-level misses never escalate past a warning;
// only an empty request or the failure of every slot reaches the caller.
var (
	// ErrNoOutgoingSlots: the request named no players to release.
	ErrNoOutgoingSlots = errors.New("no outgoing slots selected")
	// ErrUnknownPlayer: a referenced player is not in the expected list.
	ErrUnknownPlayer = errors.New("player not found")
	// ErrAllowanceExceeded: more outgoing slots than the squad grants.
	ErrAllowanceExceeded = errors.New("outgoing allowance exceeded")
	// ErrDuplicateOutgoing: the same squad player nominated twice.
	ErrDuplicateOutgoing = errors.New("duplicate outgoing slot")
	// ErrNoCandidates: every outgoing slot failed even the relaxed pass.
	ErrNoCandidates = errors.New("no eligible candidate for any outgoing slot")
)

// IsInputError reports whether err is a malformed-request failure, as
// opposed to an empty-pool one.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoOutgoingSlots) ||
		errors.Is(err, ErrUnknownPlayer) ||
		errors.Is(err, ErrAllowanceExceeded) ||
		errors.Is(err, ErrDuplicateOutgoing)
}
