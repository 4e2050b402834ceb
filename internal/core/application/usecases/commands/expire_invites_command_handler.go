package commands

import (
	"context"

	"junkos/internal/core/ports"
)

// ExpireInvitesCommandHandler is the invite housekeeping sweep. It returns
// how many invites it deactivated.
type ExpireInvitesCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewExpireInvitesCommandHandler(uowFactory UoWFactory, clock ports.Clock) ExpireInvitesCommandHandler {
	return ExpireInvitesCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h ExpireInvitesCommandHandler) Handle(ctx context.Context, cmd ExpireInvitesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.InviteRepository()
	active, err := repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, inv := range active {
		if !inv.Expire(now) {
			continue
		}
		if err = repo.Update(ctx, inv); err != nil {
			return 0, err
		}
		expired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return expired, nil
}
