package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// AssignJobCommandHandler assigns a job to an approved contractor on behalf
// of an admin. Both the contractor and the customer are notified.
type AssignJobCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewAssignJobCommandHandler(uowFactory UoWFactory, flusher EventFlusher, clock ports.Clock) AssignJobCommandHandler {
	return AssignJobCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h AssignJobCommandHandler) Handle(ctx context.Context, cmd AssignJobCommand) (*job.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(cmd.Actor(), "assign job"); err != nil {
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

	contractorRepo := uow.ContractorRepository()
	c, err := contractorRepo.Get(ctx, cmd.ContractorID())
	if err != nil {
		return nil, err
	}
	if !c.IsApproved() {
		return nil, errs.NewConflictError("contractor", "is not approved")
	}

	if err = j.Assign(c.ID(), now); err != nil {
		return nil, err
	}
	if err = jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	drafts := h.planner.JobAssigned(j, c.UserID(), false)
	if err = persistDrafts(ctx, uow.NotificationRepository(), now, drafts...); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	batch := dispatch.NewBatch()
	batch.JobAssigned(c.ID(), j)
	batch.JobStatus(j, map[string]any{"driver_id": c.ID().String()})
	h.flusher.Flush(ctx, batch)

	return j, nil
}
