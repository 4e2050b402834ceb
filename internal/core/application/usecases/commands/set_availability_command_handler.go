package commands

import (
	"context"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/ports"
)

// SetAvailabilityCommandHandler switches a contractor online or offline.
// Only approved contractors may go online.
type SetAvailabilityCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewSetAvailabilityCommandHandler(uowFactory UoWFactory, clock ports.Clock) SetAvailabilityCommandHandler {
	return SetAvailabilityCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h SetAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetAvailabilityCommand) (*contractor.Contractor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	contractorID, err := requireContractor(cmd.Actor(), "set availability")
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	contractorRepo := uow.ContractorRepository()
	c, err := contractorRepo.GetForUpdate(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if err = c.SetAvailability(cmd.Online(), h.clock.Now()); err != nil {
		return nil, err
	}
	if err = contractorRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
