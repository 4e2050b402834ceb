package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrCreatePaymentIntentCommandIsNotConstructed = errors.New(
		"CreatePaymentIntentCommand must be created via NewCreatePaymentIntentCommand constructor",
	)
)

// CreatePaymentIntentCommand opens a charge for a job, optionally with a tip
// for the driver.
type CreatePaymentIntentCommand struct {
	actor services.Actor
	jobID kernel.UUID
	tip   kernel.Money

	guard guard.ConstructorGuard
}

func NewCreatePaymentIntentCommand(actor services.Actor, jobID kernel.UUID, tip kernel.Money) (CreatePaymentIntentCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate()); err != nil {
		return CreatePaymentIntentCommand{}, err
	}
	if tip.IsNegative() {
		return CreatePaymentIntentCommand{}, errs.NewValueIsOutOfRangeError("tip", tip, 0, "unbounded")
	}
	return CreatePaymentIntentCommand{actor: actor, jobID: jobID, tip: tip, guard: guard.NewConstructorGuard()}, nil
}

func (c CreatePaymentIntentCommand) Validate() error {
	return c.guard.Validate(ErrCreatePaymentIntentCommandIsNotConstructed)
}

func (c CreatePaymentIntentCommand) Actor() services.Actor { return c.actor }
func (c CreatePaymentIntentCommand) JobID() kernel.UUID    { return c.jobID }
func (c CreatePaymentIntentCommand) Tip() kernel.Money     { return c.tip }
