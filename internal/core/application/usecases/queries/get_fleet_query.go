package queries

import (
	"errors"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrGetFleetQueryIsNotConstructed = errors.New(
		"GetFleetQuery must be created via NewGetFleetQuery constructor",
	)
)

// GetFleetQuery lists the contractors of the calling operator's fleet.
type GetFleetQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewGetFleetQuery(actor services.Actor) (GetFleetQuery, error) {
	if err := validateActor(actor); err != nil {
		return GetFleetQuery{}, err
	}
	return GetFleetQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFleetQuery) Validate() error {
	return q.guard.Validate(ErrGetFleetQueryIsNotConstructed)
}

func (q GetFleetQuery) Actor() services.Actor { return q.actor }

type FleetMember struct {
	ID             kernel.UUID
	Name           string
	Email          string
	TruckType      string
	IsOnline       bool
	Rating         float64
	TotalJobs      int
	ApprovalStatus contractor.ApprovalStatus
}
