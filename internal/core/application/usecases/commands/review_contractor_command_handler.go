package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
)

// ReviewContractorCommandHandler applies an admin approval or suspension and
// tells the contractor by notification and SMS. Suspension also takes the
// contractor offline.
type ReviewContractorCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewReviewContractorCommandHandler(uowFactory UoWFactory, flusher EventFlusher, clock ports.Clock) ReviewContractorCommandHandler {
	return ReviewContractorCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h ReviewContractorCommandHandler) Handle(
	ctx context.Context,
	cmd ReviewContractorCommand,
) (*contractor.Contractor, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(cmd.Actor(), "review contractor"); err != nil {
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

	contractorRepo := uow.ContractorRepository()
	c, err := contractorRepo.GetForUpdate(ctx, cmd.ContractorID())
	if err != nil {
		return nil, err
	}

	var draft services.Draft
	switch cmd.Decision() {
	case DecisionApprove:
		c.Approve(now)
		draft = h.planner.ApplicationApproved(c)
	case DecisionSuspend:
		c.Suspend(now)
		draft = h.planner.AccountSuspended(c)
	}

	if err = contractorRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	if err = persistDrafts(ctx, uow.NotificationRepository(), now, draft); err != nil {
		return nil, err
	}

	u, err := uow.UserRepository().Get(ctx, c.UserID())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	batch := dispatch.NewBatch()
	batch.Text(u.Phone(), "JunkOS: "+draft.Body)
	h.flusher.Flush(ctx, batch)

	return c, nil
}
