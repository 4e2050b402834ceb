package commands

import (
	"context"
)

// RevokeInviteCommandHandler deactivates an invite of the calling operator.
type RevokeInviteCommandHandler struct {
	uowFactory UoWFactory
}

func NewRevokeInviteCommandHandler(uowFactory UoWFactory) RevokeInviteCommandHandler {
	return RevokeInviteCommandHandler{uowFactory: uowFactory}
}

func (h RevokeInviteCommandHandler) Handle(ctx context.Context, cmd RevokeInviteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	operatorID, err := requireContractor(cmd.Actor(), "revoke invite")
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.InviteRepository()
	inv, err := repo.Get(ctx, cmd.InviteID())
	if err != nil {
		return err
	}
	if err = inv.Revoke(operatorID); err != nil {
		return err
	}
	if err = repo.Update(ctx, inv); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
