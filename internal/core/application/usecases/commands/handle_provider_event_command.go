package commands

import (
	"errors"

	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrHandleProviderEventCommandIsNotConstructed = errors.New(
		"HandleProviderEventCommand must be created via NewHandleProviderEventCommand constructor",
	)
)

// HandleProviderEventCommand is a raw payment provider webhook delivery.
type HandleProviderEventCommand struct {
	payload   []byte
	signature string

	guard guard.ConstructorGuard
}

func NewHandleProviderEventCommand(payload []byte, signature string) (HandleProviderEventCommand, error) {
	if len(payload) == 0 {
		return HandleProviderEventCommand{}, errs.NewValueIsRequiredError("payload")
	}
	return HandleProviderEventCommand{payload: payload, signature: signature, guard: guard.NewConstructorGuard()}, nil
}

func (c HandleProviderEventCommand) Validate() error {
	return c.guard.Validate(ErrHandleProviderEventCommandIsNotConstructed)
}

func (c HandleProviderEventCommand) Payload() []byte   { return c.payload }
func (c HandleProviderEventCommand) Signature() string { return c.signature }
