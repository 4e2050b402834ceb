package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// CancelJobCommandHandler cancels a job for its customer while it is still
// pending or confirmed.
type CancelJobCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewCancelJobCommandHandler(uowFactory UoWFactory, flusher EventFlusher, clock ports.Clock) CancelJobCommandHandler {
	return CancelJobCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h CancelJobCommandHandler) Handle(ctx context.Context, cmd CancelJobCommand) (*job.Job, error) {
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

	jobRepo := uow.JobRepository()
	j, err := jobRepo.GetForUpdate(ctx, cmd.JobID())
	if err != nil {
		return nil, err
	}
	if !j.CustomerID().IsEqual(cmd.Actor().UserID) {
		return nil, errs.NewForbiddenError("cancel job", "not your job")
	}
	if err = j.CancelByCustomer(now); err != nil {
		return nil, err
	}
	if err = jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	if err = persistDrafts(ctx, uow.NotificationRepository(), now, h.planner.StatusChanged(j)); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	batch := dispatch.NewBatch()
	batch.JobStatus(j, nil)
	h.flusher.Flush(ctx, batch)

	return j, nil
}
