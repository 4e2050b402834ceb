package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// RouteJobToOperatorCommandHandler moves a pending job to delegating and
// hands it to an approved operator, who then picks a driver from the fleet.
type RouteJobToOperatorCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewRouteJobToOperatorCommandHandler(
	uowFactory UoWFactory,
	flusher EventFlusher,
	clock ports.Clock,
) RouteJobToOperatorCommandHandler {
	return RouteJobToOperatorCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h RouteJobToOperatorCommandHandler) Handle(ctx context.Context, cmd RouteJobToOperatorCommand) (*job.Job, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(cmd.Actor(), "route job to operator"); err != nil {
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

	operator, err := uow.ContractorRepository().Get(ctx, cmd.OperatorID())
	if err != nil {
		return nil, err
	}
	if !operator.IsOperator() {
		return nil, errs.NewConflictError("contractor", "is not an operator")
	}
	if !operator.IsApproved() {
		return nil, errs.NewConflictError("operator", "is not approved")
	}

	if err = j.RouteToOperator(operator.ID(), now); err != nil {
		return nil, err
	}
	if err = jobRepo.Update(ctx, j); err != nil {
		return nil, err
	}

	if err = persistDrafts(ctx, uow.NotificationRepository(), now,
		h.planner.JobRoutedToFleet(j, operator.UserID()),
		h.planner.StatusChanged(j),
	); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	batch := dispatch.NewBatch()
	batch.Emit(dispatch.DriverRoom(operator.ID()), dispatch.EventJobAssigned, dispatch.JobPayload(j))
	batch.JobStatus(j, map[string]any{"operator_id": operator.ID().String()})
	h.flusher.Flush(ctx, batch)

	return j, nil
}
