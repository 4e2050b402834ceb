package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
)

// AcceptJobCommandHandler lets an approved contractor claim a pending job.
// The claim itself is a conditional update in the repository, so of several
// concurrent accepts exactly one commits and the others get a conflict.
type AcceptJobCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewAcceptJobCommandHandler(uowFactory UoWFactory, flusher EventFlusher, clock ports.Clock) AcceptJobCommandHandler {
	return AcceptJobCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h AcceptJobCommandHandler) Handle(ctx context.Context, cmd AcceptJobCommand) (*job.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	contractorID, err := requireContractor(cmd.Actor(), "accept job")
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

	c, err := uow.ContractorRepository().Get(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if err = c.EnsureCanAcceptJobs(); err != nil {
		return nil, err
	}

	jobRepo := uow.JobRepository()
	j, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return nil, err
	}
	if err = j.Accept(c.ID(), now); err != nil {
		return nil, err
	}
	if err = jobRepo.AcceptPending(ctx, j.ID(), c.ID(), now); err != nil {
		return nil, err
	}

	if err = persistDrafts(ctx, uow.NotificationRepository(), now, h.planner.JobAccepted(j)); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	batch := dispatch.NewBatch()
	batch.JobStatus(j, map[string]any{"driver_id": c.ID().String()})
	h.flusher.Flush(ctx, batch)

	return j, nil
}
