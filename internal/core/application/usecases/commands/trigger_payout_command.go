package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrTriggerPayoutCommandIsNotConstructed = errors.New(
		"TriggerPayoutCommand must be created via NewTriggerPayoutCommand constructor",
	)
)

// TriggerPayoutCommand is an admin releasing the payout of a paid job.
type TriggerPayoutCommand struct {
	actor services.Actor
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewTriggerPayoutCommand(actor services.Actor, jobID kernel.UUID) (TriggerPayoutCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate()); err != nil {
		return TriggerPayoutCommand{}, err
	}
	return TriggerPayoutCommand{actor: actor, jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (c TriggerPayoutCommand) Validate() error {
	return c.guard.Validate(ErrTriggerPayoutCommandIsNotConstructed)
}

func (c TriggerPayoutCommand) Actor() services.Actor { return c.actor }
func (c TriggerPayoutCommand) JobID() kernel.UUID    { return c.jobID }
