package commands

import (
	"errors"
	"time"

	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrCreateInviteCommandIsNotConstructed = errors.New(
		"CreateInviteCommand must be created via NewCreateInviteCommand constructor",
	)
)

// CreateInviteCommand is an operator issuing an onboarding code.
type CreateInviteCommand struct {
	actor     services.Actor
	email     string
	maxUses   int
	expiresAt *time.Time

	guard guard.ConstructorGuard
}

// NewCreateInviteCommand defaults maxUses to a single use.
func NewCreateInviteCommand(actor services.Actor, email string, maxUses int, expiresAt *time.Time) (CreateInviteCommand, error) {
	if err := validateActor(actor); err != nil {
		return CreateInviteCommand{}, err
	}
	if maxUses == 0 {
		maxUses = 1
	}
	return CreateInviteCommand{
		actor:     actor,
		email:     email,
		maxUses:   maxUses,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CreateInviteCommand) Validate() error {
	return c.guard.Validate(ErrCreateInviteCommandIsNotConstructed)
}

func (c CreateInviteCommand) Actor() services.Actor { return c.actor }
func (c CreateInviteCommand) Email() string         { return c.email }
func (c CreateInviteCommand) MaxUses() int          { return c.maxUses }
func (c CreateInviteCommand) ExpiresAt() *time.Time { return c.expiresAt }
