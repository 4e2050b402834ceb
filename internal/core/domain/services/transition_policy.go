package services

import (
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/pkg/errs"
)

// Actor is the caller of a job operation as resolved by the auth layer.
// ContractorID is set when the user has a contractor profile.
type Actor struct {
	UserID       kernel.UUID
	Role         user.Role
	ContractorID *kernel.UUID
	IsOperator   bool
}

func (a Actor) IsAdmin() bool { return a.Role == user.RoleAdmin }

func (a Actor) isContractor(id *kernel.UUID) bool {
	return a.ContractorID != nil && id != nil && a.ContractorID.IsEqual(*id)
}

// TransitionPolicy is the single place that decides who may move a job
// along which edge of the state machine.
//
// Rules:
//   - admin: any existing edge except the direct accept
//   - contractor: pending -> accepted on an unassigned job, and the driver
//     table on a job they hold
//   - owning operator: delegating -> assigned and delegating -> cancelled
//   - customer: cancel their own job while pending or confirmed
type TransitionPolicy struct{}

func NewTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{}
}

// CanTransition reports whether actor may move j from -> to. It is false when
// from is not the job's current status or the edge does not exist.
func (TransitionPolicy) CanTransition(actor Actor, j *job.Job, from, to job.Status) bool {
	if j == nil || j.Status() != from || !from.CanTransitionTo(to) {
		return false
	}

	if actor.IsAdmin() {
		return to != job.Accepted
	}

	if actor.ContractorID != nil {
		if from == job.Pending && to == job.Accepted && j.DriverID() == nil {
			return true
		}
		if actor.isContractor(j.DriverID()) && from.IsDriverTransition(to) {
			return true
		}
		if actor.IsOperator && actor.isContractor(j.OperatorID()) &&
			from == job.Delegating && (to == job.Assigned || to == job.Cancelled) {
			return true
		}
	}

	return actor.UserID.IsEqual(j.CustomerID()) && to == job.Cancelled && from.CanCustomerCancel()
}

// Authorize explains a refusal: a conflict when the edge is invalid for the
// job's state, forbidden when the actor lacks the right.
func (p TransitionPolicy) Authorize(actor Actor, j *job.Job, to job.Status) error {
	from := j.Status()
	if _, err := from.TransitionTo(to); err != nil {
		return err
	}
	if !p.CanTransition(actor, j, from, to) {
		return errs.NewForbiddenError("transition job to "+to.String(), "not allowed for this caller")
	}
	return nil
}
