package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrAssignJobCommandIsNotConstructed = errors.New(
		"AssignJobCommand must be created via NewAssignJobCommand constructor",
	)
)

// AssignJobCommand is an admin assigning a job to a contractor.
type AssignJobCommand struct {
	actor        services.Actor
	jobID        kernel.UUID
	contractorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignJobCommand(actor services.Actor, jobID, contractorID kernel.UUID) (AssignJobCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate(), contractorID.Validate()); err != nil {
		return AssignJobCommand{}, err
	}
	return AssignJobCommand{
		actor:        actor,
		jobID:        jobID,
		contractorID: contractorID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c AssignJobCommand) Validate() error {
	return c.guard.Validate(ErrAssignJobCommandIsNotConstructed)
}

func (c AssignJobCommand) Actor() services.Actor     { return c.actor }
func (c AssignJobCommand) JobID() kernel.UUID        { return c.jobID }
func (c AssignJobCommand) ContractorID() kernel.UUID { return c.contractorID }
