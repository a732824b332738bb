package leads

import "consult-booking-backend/internal/catalog"

// progression is the forward order of the follow-up workflow.
var progression = map[catalog.Status]int{
	catalog.StatusPending:   0,
	catalog.StatusReviewed:  1,
	catalog.StatusContacted: 2,
	catalog.StatusScheduled: 3,
	catalog.StatusCompleted: 4,
}

// CanTransition reports whether a lead may move from one status to another.
// The workflow only moves forward, steps may be skipped, and cancellation
// is reachable from every non-terminal status.
func CanTransition(from, to catalog.Status) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == catalog.StatusCancelled {
		return true
	}
	return progression[to] > progression[from]
}
