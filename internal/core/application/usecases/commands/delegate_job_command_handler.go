package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// DelegateJobCommandHandler assigns a delegating job to a fleet contractor.
// The operator must own the job and the contractor must be an approved
// member of the operator's fleet.
type DelegateJobCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	policy     services.TransitionPolicy
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewDelegateJobCommandHandler(uowFactory UoWFactory, flusher EventFlusher, clock ports.Clock) DelegateJobCommandHandler {
	return DelegateJobCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		policy:     services.NewTransitionPolicy(),
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h DelegateJobCommandHandler) Handle(ctx context.Context, cmd DelegateJobCommand) (*job.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	operatorID, err := requireContractor(actor, "delegate job")
	if err != nil {
		return nil, err
	}
	if !actor.IsOperator {
		return nil, errs.NewForbiddenError("delegate job", "operator role required")
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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
	if err = h.policy.Authorize(actor, j, job.Assigned); err != nil {
		return nil, err
	}

	member, err := uow.ContractorRepository().Get(ctx, cmd.ContractorID())
	if err != nil {
		return nil, err
	}
	if !member.BelongsTo(operatorID) {
		return nil, errs.NewForbiddenError("delegate job", "contractor is not in your fleet")
	}
	if !member.IsApproved() {
		return nil, errs.NewConflictError("contractor", "is not approved")
	}

	if err = j.Delegate(member.ID(), now); err != nil {
		return nil, err
	}
	if err = jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	drafts := h.planner.JobAssigned(j, member.UserID(), true)
	if err = persistDrafts(ctx, uow.NotificationRepository(), now, drafts...); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	batch := dispatch.NewBatch()
	batch.JobAssigned(member.ID(), j)
	batch.JobStatus(j, map[string]any{"driver_id": member.ID().String()})
	h.flusher.Flush(ctx, batch)

	return j, nil
}
