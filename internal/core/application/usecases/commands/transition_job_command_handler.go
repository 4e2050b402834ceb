package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
)

// TransitionJobCommandHandler applies a status change after the transition
// policy approved the caller. Completing a job also counts it on the
// driver's profile.
type TransitionJobCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	policy     services.TransitionPolicy
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewTransitionJobCommandHandler(uowFactory UoWFactory, flusher EventFlusher, clock ports.Clock) TransitionJobCommandHandler {
	return TransitionJobCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		policy:     services.NewTransitionPolicy(),
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h TransitionJobCommandHandler) Handle(ctx context.Context, cmd TransitionJobCommand) (*job.Job, error) {
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
	if err = h.policy.Authorize(cmd.Actor(), j, cmd.To()); err != nil {
		return nil, err
	}
	if err = j.TransitionTo(cmd.To(), cmd.Photos(), now); err != nil {
		return nil, err
	}
	if err = jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	if j.Status() == job.Completed && j.DriverID() != nil {
		contractorRepo := uow.ContractorRepository()
		driver, getErr := contractorRepo.GetForUpdate(ctx, *j.DriverID())
		if getErr != nil {
			return nil, getErr
		}
		driver.CompleteJob(now)
		if err = contractorRepo.Update(ctx, driver); err != nil {
			return nil, err
		}
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
