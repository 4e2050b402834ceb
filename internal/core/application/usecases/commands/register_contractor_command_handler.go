package commands

import (
	"context"
	"errors"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// RegisterContractorCommandHandler creates a pending contractor profile.
// Users with the operator role register as operators. A valid invite code
// consumes one use of the invite and places the new contractor in the
// inviting operator's fleet.
type RegisterContractorCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewRegisterContractorCommandHandler(uowFactory UoWFactory, clock ports.Clock) RegisterContractorCommandHandler {
	return RegisterContractorCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h RegisterContractorCommandHandler) Handle(
	ctx context.Context,
	cmd RegisterContractorCommand,
) (*contractor.Contractor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	u, err := uow.UserRepository().Get(ctx, cmd.Actor().UserID)
	if err != nil {
		return nil, err
	}

	contractorRepo := uow.ContractorRepository()
	existing, err := contractorRepo.GetByUserID(ctx, u.ID())
	switch {
	case err == nil && existing != nil:
		return nil, errs.NewConflictError("user", "is already registered as a contractor")
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	c, err := contractor.NewContractor(kernel.NewUUID(), u.ID(), cmd.TruckType(), u.Role() == user.RoleOperator, now)
	if err != nil {
		return nil, err
	}

	if code := cmd.InviteCode(); code != "" {
		inviteRepo := uow.InviteRepository()
		inv, getErr := inviteRepo.GetByCode(ctx, code)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause("invite code", getErr)
		}
		if getErr != nil {
			return nil, getErr
		}
		if err = inv.Consume(now); err != nil {
			return nil, err
		}

		operator, getErr := contractorRepo.Get(ctx, inv.OperatorID())
		if getErr != nil {
			return nil, getErr
		}
		if err = c.JoinFleet(operator, now); err != nil {
			return nil, err
		}
		if err = inviteRepo.Update(ctx, inv); err != nil {
			return nil, err
		}
	}

	if err = contractorRepo.Add(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
