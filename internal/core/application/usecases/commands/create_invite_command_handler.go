package commands

import (
	"context"

	"junkos/internal/core/domain/model/invite"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// CreateInviteCommandHandler issues a fresh invite code for the calling
// operator.
type CreateInviteCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewCreateInviteCommandHandler(uowFactory UoWFactory, clock ports.Clock) CreateInviteCommandHandler {
	return CreateInviteCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h CreateInviteCommandHandler) Handle(ctx context.Context, cmd CreateInviteCommand) (*invite.Invite, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	operatorID, err := requireContractor(cmd.Actor(), "create invite")
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	operator, err := uow.ContractorRepository().Get(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if !operator.IsOperator() {
		return nil, errs.NewForbiddenError("create invite", "operator role required")
	}

	code, err := invite.GenerateCode()
	if err != nil {
		return nil, err
	}
	inv, err := invite.NewInvite(kernel.NewUUID(), operator.ID(), code, cmd.Email(), cmd.MaxUses(), cmd.ExpiresAt(), now)
	if err != nil {
		return nil, err
	}
	if err = uow.InviteRepository().Add(ctx, inv); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return inv, nil
}
