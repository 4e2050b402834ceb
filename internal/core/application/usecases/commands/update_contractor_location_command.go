package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrUpdateContractorLocationCommandIsNotConstructed = errors.New(
		"UpdateContractorLocationCommand must be created via NewUpdateContractorLocationCommand constructor",
	)
)

// UpdateContractorLocationCommand is a location ping from a contractor's device.
type UpdateContractorLocationCommand struct {
	actor    services.Actor
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateContractorLocationCommand(actor services.Actor, location kernel.GeoPoint) (UpdateContractorLocationCommand, error) {
	if err := errors.Join(validateActor(actor), location.Validate()); err != nil {
		return UpdateContractorLocationCommand{}, err
	}
	return UpdateContractorLocationCommand{actor: actor, location: location, guard: guard.NewConstructorGuard()}, nil
}

func (c UpdateContractorLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateContractorLocationCommandIsNotConstructed)
}

func (c UpdateContractorLocationCommand) Actor() services.Actor     { return c.actor }
func (c UpdateContractorLocationCommand) Location() kernel.GeoPoint { return c.location }
