package commands

import (
	"errors"

	"junkos/internal/pkg/guard"
)

var (
	ErrExpireInvitesCommandIsNotConstructed = errors.New(
		"ExpireInvitesCommand must be created via NewExpireInvitesCommand constructor",
	)
)

// ExpireInvitesCommand deactivates invites that expired or ran out of uses.
type ExpireInvitesCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireInvitesCommand() ExpireInvitesCommand {
	return ExpireInvitesCommand{guard: guard.NewConstructorGuard()}
}

func (c ExpireInvitesCommand) Validate() error {
	return c.guard.Validate(ErrExpireInvitesCommandIsNotConstructed)
}
