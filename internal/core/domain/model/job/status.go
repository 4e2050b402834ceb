package job

import (
	"fmt"
	"strings"

	"junkos/internal/pkg/errs"
)

// Status represents the lifecycle state of a job.
//
// State transitions:
//
//	pending ──accept──────────> accepted ──┐
//	   │ ──admin assign────────> assigned ──┼──> en_route ──> arrived ──> started ──> completed
//	   │ ──route to operator──> delegating ─┘ (delegate)
//	   └──────────────────────────────────────────────> cancelled (from any state before started)
//
// confirmed is a legacy state written by older booking flows. It is accepted
// as a source for customer cancellation and admin assignment but never
// produced by this service.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status: the job waits for a contractor to accept it.
	Pending

	// Confirmed is the legacy pre-assignment status.
	Confirmed

	// Delegating marks a job pre-routed to an operator, waiting for the
	// operator to pick one of their fleet contractors.
	Delegating

	// Accepted means a contractor claimed the job directly.
	Accepted

	// Assigned means an admin or operator put a contractor on the job.
	Assigned

	// EnRoute means the contractor is driving to the site.
	EnRoute

	// Arrived means the contractor is at the site.
	Arrived

	// Started means the removal is under way. Cancellation is no longer possible.
	Started

	// Completed is final.
	Completed

	// Cancelled is final.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		Delegating: "delegating",
		Accepted:   "accepted",
		Assigned:   "assigned",
		EnRoute:    "en_route",
		Arrived:    "arrived",
		Started:    "started",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// getTransitions returns every allowed edge of the state machine. Who may
// take an edge is decided by services.TransitionPolicy.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal states have no outgoing edges
	return map[Status][]Status{
		Pending:    {Accepted, Assigned, Delegating, Cancelled},
		Confirmed:  {Assigned, Cancelled},
		Delegating: {Assigned, Cancelled},
		Accepted:   {Assigned, EnRoute, Cancelled},
		Assigned:   {Assigned, EnRoute, Cancelled},
		EnRoute:    {Arrived, Cancelled},
		Arrived:    {Started, Cancelled},
		Started:    {Completed},
	}
}

// getDriverTransitions returns the edges a driver may take on a job they hold.
func getDriverTransitions() map[Status][]Status {
	//nolint:exhaustive // only held states appear here
	return map[Status][]Status{
		Accepted: {EnRoute, Cancelled},
		Assigned: {EnRoute, Cancelled},
		EnRoute:  {Arrived, Cancelled},
		Arrived:  {Started, Cancelled},
		Started:  {Completed},
	}
}

// ParseStatus converts a persisted or client-supplied status name.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the known states.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, e.g. "en_route".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Title returns the human form used in notification titles, e.g. "En Route".
func (s Status) Title() string {
	words := strings.Split(s.String(), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsActive reports whether a contractor is currently working the job.
func (s Status) IsActive() bool {
	switch s { //nolint:exhaustive
	case Accepted, Assigned, EnRoute, Arrived, Started:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the edge s -> to exists at all.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range getTransitions()[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsDriverTransition reports whether the edge s -> to is in the driver table.
func (s Status) IsDriverTransition(to Status) bool {
	for _, next := range getDriverTransitions()[s] {
		if next == to {
			return true
		}
	}
	return false
}

// DriverTargets lists the statuses a driver may move to from s.
func (s Status) DriverTargets() []Status {
	return append([]Status(nil), getDriverTransitions()[s]...)
}

// TransitionTo validates the edge and returns the new status, or a conflict
// error leaving the caller's status untouched.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(to) {
		return Unknown, errs.NewConflictError("job",
			fmt.Sprintf("cannot transition from %s to %s", s, to))
	}
	return to, nil
}

// CanCustomerCancel reports whether the customer may still cancel.
func (s Status) CanCustomerCancel() bool {
	return s == Pending || s == Confirmed
}
