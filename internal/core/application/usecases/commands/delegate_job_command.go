package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrDelegateJobCommandIsNotConstructed = errors.New(
		"DelegateJobCommand must be created via NewDelegateJobCommand constructor",
	)
)

// DelegateJobCommand is an operator handing one of its delegating jobs to a
// contractor of its fleet.
type DelegateJobCommand struct {
	actor        services.Actor
	jobID        kernel.UUID
	contractorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDelegateJobCommand(actor services.Actor, jobID, contractorID kernel.UUID) (DelegateJobCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate(), contractorID.Validate()); err != nil {
		return DelegateJobCommand{}, err
	}
	return DelegateJobCommand{
		actor:        actor,
		jobID:        jobID,
		contractorID: contractorID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c DelegateJobCommand) Validate() error {
	return c.guard.Validate(ErrDelegateJobCommandIsNotConstructed)
}

func (c DelegateJobCommand) Actor() services.Actor     { return c.actor }
func (c DelegateJobCommand) JobID() kernel.UUID        { return c.jobID }
func (c DelegateJobCommand) ContractorID() kernel.UUID { return c.contractorID }
