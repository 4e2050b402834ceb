package commands

import (
	"errors"
	"strings"

	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrRegisterContractorCommandIsNotConstructed = errors.New(
		"RegisterContractorCommand must be created via NewRegisterContractorCommand constructor",
	)
)

// RegisterContractorCommand creates the contractor profile of the calling
// user. An operator invite code, when given, joins the operator's fleet.
type RegisterContractorCommand struct {
	actor      services.Actor
	truckType  string
	inviteCode string

	guard guard.ConstructorGuard
}

func NewRegisterContractorCommand(actor services.Actor, truckType, inviteCode string) (RegisterContractorCommand, error) {
	if err := validateActor(actor); err != nil {
		return RegisterContractorCommand{}, err
	}
	return RegisterContractorCommand{
		actor:      actor,
		truckType:  strings.TrimSpace(truckType),
		inviteCode: strings.ToUpper(strings.TrimSpace(inviteCode)),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterContractorCommand) Validate() error {
	return c.guard.Validate(ErrRegisterContractorCommandIsNotConstructed)
}

func (c RegisterContractorCommand) Actor() services.Actor { return c.actor }
func (c RegisterContractorCommand) TruckType() string     { return c.truckType }
func (c RegisterContractorCommand) InviteCode() string    { return c.inviteCode }
