package commands

import (
	"errors"
	"strings"

	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrConfirmPaymentCommandIsNotConstructed = errors.New(
		"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
	)
)

// ConfirmPaymentCommand is the client reporting a completed charge.
type ConfirmPaymentCommand struct {
	actor    services.Actor
	intentID string

	guard guard.ConstructorGuard
}

func NewConfirmPaymentCommand(actor services.Actor, intentID string) (ConfirmPaymentCommand, error) {
	if err := validateActor(actor); err != nil {
		return ConfirmPaymentCommand{}, err
	}
	id := strings.TrimSpace(intentID)
	if id == "" {
		return ConfirmPaymentCommand{}, errs.NewValueIsRequiredError("payment intent id")
	}
	return ConfirmPaymentCommand{actor: actor, intentID: id, guard: guard.NewConstructorGuard()}, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) Actor() services.Actor { return c.actor }
func (c ConfirmPaymentCommand) IntentID() string      { return c.intentID }
