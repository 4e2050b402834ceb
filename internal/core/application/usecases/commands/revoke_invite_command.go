package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrRevokeInviteCommandIsNotConstructed = errors.New(
		"RevokeInviteCommand must be created via NewRevokeInviteCommand constructor",
	)
)

type RevokeInviteCommand struct {
	actor    services.Actor
	inviteID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRevokeInviteCommand(actor services.Actor, inviteID kernel.UUID) (RevokeInviteCommand, error) {
	if err := errors.Join(validateActor(actor), inviteID.Validate()); err != nil {
		return RevokeInviteCommand{}, err
	}
	return RevokeInviteCommand{actor: actor, inviteID: inviteID, guard: guard.NewConstructorGuard()}, nil
}

func (c RevokeInviteCommand) Validate() error {
	return c.guard.Validate(ErrRevokeInviteCommandIsNotConstructed)
}

func (c RevokeInviteCommand) Actor() services.Actor { return c.actor }
func (c RevokeInviteCommand) InviteID() kernel.UUID { return c.inviteID }
