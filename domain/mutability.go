package domain

import "time"

// MutabilityWindow bounds how long a message stays editable and deletable
// after creation.
const MutabilityWindow = 15 * time.Minute

// CanMutate reports whether a message created at createdAt may still be
// edited or hard-deleted at now. The comparison is on the absolute
// difference to stay robust against clock skew between the node that
// stamped the message and the node checking it. A side effect is that a
// message date-stamped slightly in the future remains mutable.
func CanMutate(createdAt, now time.Time) bool {
	diff := now.Sub(createdAt)
	if diff < 0 {
		diff = -diff
	}
	return diff < MutabilityWindow
}
