package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrCancelJobCommandIsNotConstructed = errors.New(
		"CancelJobCommand must be created via NewCancelJobCommand constructor",
	)
)

// CancelJobCommand is a customer cancelling their own booking.
type CancelJobCommand struct {
	actor services.Actor
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelJobCommand(actor services.Actor, jobID kernel.UUID) (CancelJobCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate()); err != nil {
		return CancelJobCommand{}, err
	}
	return CancelJobCommand{actor: actor, jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelJobCommand) Validate() error {
	return c.guard.Validate(ErrCancelJobCommandIsNotConstructed)
}

func (c CancelJobCommand) Actor() services.Actor { return c.actor }
func (c CancelJobCommand) JobID() kernel.UUID    { return c.jobID }
