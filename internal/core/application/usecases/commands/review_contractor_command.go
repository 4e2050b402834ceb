package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrReviewContractorCommandIsNotConstructed = errors.New(
		"ReviewContractorCommand must be created via NewApproveContractorCommand or NewSuspendContractorCommand",
	)
)

// ReviewDecision is the outcome of an admin review of a contractor.
type ReviewDecision int

const (
	DecisionApprove ReviewDecision = iota + 1
	DecisionSuspend
)

// ReviewContractorCommand approves or suspends a contractor.
type ReviewContractorCommand struct {
	actor        services.Actor
	contractorID kernel.UUID
	decision     ReviewDecision

	guard guard.ConstructorGuard
}

func NewApproveContractorCommand(actor services.Actor, contractorID kernel.UUID) (ReviewContractorCommand, error) {
	return newReviewContractorCommand(actor, contractorID, DecisionApprove)
}

func NewSuspendContractorCommand(actor services.Actor, contractorID kernel.UUID) (ReviewContractorCommand, error) {
	return newReviewContractorCommand(actor, contractorID, DecisionSuspend)
}

func newReviewContractorCommand(
	actor services.Actor,
	contractorID kernel.UUID,
	decision ReviewDecision,
) (ReviewContractorCommand, error) {
	if err := errors.Join(validateActor(actor), contractorID.Validate()); err != nil {
		return ReviewContractorCommand{}, err
	}
	return ReviewContractorCommand{
		actor:        actor,
		contractorID: contractorID,
		decision:     decision,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ReviewContractorCommand) Validate() error {
	return c.guard.Validate(ErrReviewContractorCommandIsNotConstructed)
}

func (c ReviewContractorCommand) Actor() services.Actor     { return c.actor }
func (c ReviewContractorCommand) ContractorID() kernel.UUID { return c.contractorID }
func (c ReviewContractorCommand) Decision() ReviewDecision  { return c.decision }
