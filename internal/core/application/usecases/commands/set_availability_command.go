package commands

import (
	"errors"

	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrSetAvailabilityCommandIsNotConstructed = errors.New(
		"SetAvailabilityCommand must be created via NewSetAvailabilityCommand constructor",
	)
)

// SetAvailabilityCommand toggles whether a contractor receives job offers.
type SetAvailabilityCommand struct {
	actor  services.Actor
	online bool

	guard guard.ConstructorGuard
}

func NewSetAvailabilityCommand(actor services.Actor, online bool) (SetAvailabilityCommand, error) {
	if err := validateActor(actor); err != nil {
		return SetAvailabilityCommand{}, err
	}
	return SetAvailabilityCommand{actor: actor, online: online, guard: guard.NewConstructorGuard()}, nil
}

func (c SetAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAvailabilityCommandIsNotConstructed)
}

func (c SetAvailabilityCommand) Actor() services.Actor { return c.actor }
func (c SetAvailabilityCommand) Online() bool          { return c.online }
