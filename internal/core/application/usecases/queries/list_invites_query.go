package queries

import (
	"errors"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrListInvitesQueryIsNotConstructed = errors.New(
		"ListInvitesQuery must be created via NewListInvitesQuery constructor",
	)
)

// ListInvitesQuery lists every invite the calling operator issued, newest
// first, revoked and exhausted ones included.
type ListInvitesQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewListInvitesQuery(actor services.Actor) (ListInvitesQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListInvitesQuery{}, err
	}
	return ListInvitesQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListInvitesQuery) Validate() error {
	return q.guard.Validate(ErrListInvitesQueryIsNotConstructed)
}

func (q ListInvitesQuery) Actor() services.Actor { return q.actor }

type InviteView struct {
	ID        kernel.UUID
	Code      string
	Email     string
	MaxUses   int
	UseCount  int
	ExpiresAt *time.Time
	IsActive  bool
	CreatedAt time.Time
}
