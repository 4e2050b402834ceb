package queries

import (
	"errors"

	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrListAvailableJobsQueryIsNotConstructed = errors.New(
		"ListAvailableJobsQuery must be created via NewListAvailableJobsQuery constructor",
	)
)

// ListAvailableJobsQuery lists pending jobs near the calling contractor.
// A zero radius means the handler's default.
type ListAvailableJobsQuery struct {
	actor    services.Actor
	radiusKm float64

	guard guard.ConstructorGuard
}

func NewListAvailableJobsQuery(actor services.Actor, radiusKm float64) (ListAvailableJobsQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListAvailableJobsQuery{}, err
	}
	if radiusKm < 0 {
		return ListAvailableJobsQuery{}, errs.NewValueIsOutOfRangeError("radius", radiusKm, 0, "unbounded")
	}
	return ListAvailableJobsQuery{actor: actor, radiusKm: radiusKm, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAvailableJobsQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableJobsQueryIsNotConstructed)
}

func (q ListAvailableJobsQuery) Actor() services.Actor { return q.actor }
func (q ListAvailableJobsQuery) RadiusKm() float64     { return q.radiusKm }

// AvailableJob is a pending job with its distance from the contractor; the
// distance is nil when either side has no coordinates.
type AvailableJob struct {
	JobView
	DistanceKm *float64
}
