package domain

import "time"

// Transition is one state-machine step for a lifecycle.
type Transition struct {
	From LifecycleStatus
	To   LifecycleStatus
	// ClearAcceptanceRequested marks that the step consumed the freelancer's
	// acceptance request (only the employer's completion rejection does).
	ClearAcceptanceRequested bool
}

// NextStatus is the pure, single-step lifecycle decision function. It maps
// (current lifecycle, whether an accepted application exists, now) to the
// next status, or ok=false when nothing is due.
//
// The function never performs I/O and never regresses: the one backward
// edge in the graph (PendingForReview -> InProgress) is an explicit
// employer command handled by RejectCompletion, not by this function.
func NextStatus(lc Lifecycle, hasAcceptedApplication bool, now time.Time) (Transition, bool) {
	switch lc.Status {
	case StatusPublished:
		if !now.Before(lc.ApplicationsStartDate) {
			return Transition{From: lc.Status, To: StatusAcceptingApplications}, true
		}

	case StatusAcceptingApplications:
		if !now.Before(lc.ApplicationsDeadline) {
			if hasAcceptedApplication {
				return Transition{From: lc.Status, To: StatusWaitingForWorkStart}, true
			}
			// Deadline passed with no freelancer secured.
			return Transition{From: lc.Status, To: StatusExpired}, true
		}

	case StatusWaitingForWorkStart:
		if !now.Before(lc.WorkStartDate) {
			return Transition{From: lc.Status, To: StatusInProgress}, true
		}

	case StatusInProgress:
		if lc.AcceptanceRequested || !now.Before(lc.WorkDeadline) {
			return Transition{From: lc.Status, To: StatusPendingForReview}, true
		}

	case StatusPendingForReview:
		if lc.AcceptanceConfirmed {
			return Transition{From: lc.Status, To: StatusCompleted}, true
		}
	}

	return Transition{}, false
}

// Advance applies NextStatus repeatedly until no further transition is due,
// so one evaluation can carry a lifecycle across several elapsed thresholds
// (e.g. Published straight past its applications window). It mutates the
// copy it was given and returns it together with whether anything changed.
func Advance(lc Lifecycle, hasAcceptedApplication bool, now time.Time) (Lifecycle, bool) {
	changed := false
	for {
		tr, ok := NextStatus(lc, hasAcceptedApplication, now)
		if !ok {
			return lc, changed
		}
		lc.Status = tr.To
		if tr.ClearAcceptanceRequested {
			lc.AcceptanceRequested = false
		}
		changed = true
	}
}

// RejectCompletion is the employer's explicit rejection of a completion
// request: the only regression in the graph. It clears the pending request
// so the freelancer can ask again.
func RejectCompletion(lc Lifecycle) (Lifecycle, error) {
	if lc.Status != StatusPendingForReview {
		return lc, ErrInvalidState
	}
	lc.Status = StatusInProgress
	lc.AcceptanceRequested = false
	lc.AcceptanceConfirmed = false
	return lc, nil
}

// ConfirmCompletion records the employer's confirmation and completes the
// lifecycle. AcceptanceConfirmed may only be set while a request is open.
func ConfirmCompletion(lc Lifecycle) (Lifecycle, error) {
	if lc.Status != StatusPendingForReview {
		return lc, ErrInvalidState
	}
	lc.AcceptanceConfirmed = true
	lc.AcceptanceRequested = false
	lc.Status = StatusCompleted
	return lc, nil
}
