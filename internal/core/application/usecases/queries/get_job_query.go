package queries

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrGetJobQueryIsNotConstructed = errors.New(
		"GetJobQuery must be created via NewGetJobQuery constructor",
	)
)

// GetJobQuery reads one job with its payment summary and driver.
//
// Access is granted to admins, the customer who booked the job, the assigned
// driver and the operator the job is routed to.
type GetJobQuery struct {
	actor services.Actor
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetJobQuery(actor services.Actor, jobID kernel.UUID) (GetJobQuery, error) {
	if err := validateActor(actor); err != nil {
		return GetJobQuery{}, err
	}
	if err := jobID.Validate(); err != nil {
		return GetJobQuery{}, err
	}
	return GetJobQuery{actor: actor, jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetJobQuery) Validate() error {
	return q.guard.Validate(ErrGetJobQueryIsNotConstructed)
}

func (q GetJobQuery) Actor() services.Actor { return q.actor }
func (q GetJobQuery) JobID() kernel.UUID    { return q.jobID }

// DriverSummary is the contractor working a job as the customer sees it.
type DriverSummary struct {
	ID        kernel.UUID
	Name      string
	Phone     string
	Rating    float64
	TruckType string
	Lat       *float64
	Lng       *float64
}

type GetJobQueryResponse struct {
	JobView
	Driver *DriverSummary
}
