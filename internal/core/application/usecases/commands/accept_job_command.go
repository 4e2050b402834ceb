package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrAcceptJobCommandIsNotConstructed = errors.New(
		"AcceptJobCommand must be created via NewAcceptJobCommand constructor",
	)
)

// AcceptJobCommand is a contractor taking a pending job directly.
type AcceptJobCommand struct {
	actor services.Actor
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptJobCommand(actor services.Actor, jobID kernel.UUID) (AcceptJobCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate()); err != nil {
		return AcceptJobCommand{}, err
	}
	return AcceptJobCommand{actor: actor, jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (c AcceptJobCommand) Validate() error {
	return c.guard.Validate(ErrAcceptJobCommandIsNotConstructed)
}

func (c AcceptJobCommand) Actor() services.Actor { return c.actor }
func (c AcceptJobCommand) JobID() kernel.UUID    { return c.jobID }
