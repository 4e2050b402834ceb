package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
)

// CreateJobResult is the booked job with its priced estimate and the pending
// payment row created alongside it.
type CreateJobResult struct {
	Job      *job.Job
	Payment  *payment.Payment
	Estimate services.Estimate
}

// CreateJobCommandHandler books a pickup. In one transaction it prices the
// items, stores the job and its pending payment, and persists a "New Job
// Available" notification for every contractor in range. After commit the
// contractors get a live offer and the customer a confirmation SMS.
//
// Example:
//
//	handler := NewCreateJobCommandHandler(uowFactory, dispatcher, engine, matcher, ports.SystemClock{})
//	res, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Job.Price().Total()) // $268.92
type CreateJobCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	engine     services.PricingEngine
	matcher    services.GeoMatcher
	calculator services.SettlementCalculator
	planner    services.NotificationPlanner
	clock      ports.Clock
}

func NewCreateJobCommandHandler(
	uowFactory UoWFactory,
	flusher EventFlusher,
	engine services.PricingEngine,
	matcher services.GeoMatcher,
	clock ports.Clock,
) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		engine:     engine,
		matcher:    matcher,
		calculator: services.NewSettlementCalculator(),
		planner:    services.NewNotificationPlanner(),
		clock:      clock,
	}
}

func (h CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) (CreateJobResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateJobResult{}, err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateJobResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	customer, err := uow.UserRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return CreateJobResult{}, err
	}

	pricingRepo := uow.PricingRepository()
	rules, err := pricingRepo.ListRules(ctx)
	if err != nil {
		return CreateJobResult{}, err
	}
	zones, err := pricingRepo.ListSurgeZones(ctx)
	if err != nil {
		return CreateJobResult{}, err
	}

	estimate, err := h.engine.Estimate(cmd.Items(), cmd.Location(), rules, zones, now)
	if err != nil {
		return CreateJobResult{}, err
	}

	j, err := job.NewJob(job.NewJobParams{
		ID:          kernel.NewUUID(),
		CustomerID:  customer.ID(),
		Address:     cmd.Address(),
		Location:    cmd.Location(),
		Items:       cmd.Items(),
		Photos:      cmd.Photos(),
		ScheduledAt: cmd.ScheduledAt(),
		Notes:       cmd.Notes(),
		Price:       estimate.Price,
		Now:         now,
	})
	if err != nil {
		return CreateJobResult{}, err
	}
	if err = uow.JobRepository().Add(ctx, j); err != nil {
		return CreateJobResult{}, err
	}

	split, err := h.calculator.Split(j.Price().Total(), 0, nil)
	if err != nil {
		return CreateJobResult{}, err
	}
	p, err := payment.NewPayment(kernel.NewUUID(), j.ID(), split, 0, now)
	if err != nil {
		return CreateJobResult{}, err
	}
	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return CreateJobResult{}, err
	}

	pool, err := uow.ContractorRepository().ListAvailable(ctx)
	if err != nil {
		return CreateJobResult{}, err
	}

	batch := dispatch.NewBatch()
	matches := h.matcher.Nearby(j.Location(), pool)
	drafts := make([]services.Draft, 0, len(matches))
	for _, m := range matches {
		drafts = append(drafts, h.planner.NewJobAvailable(j, m.Item.UserID()))
		batch.NewJob(m.Item.ID(), j, m.DistanceKm)
	}
	if err = persistDrafts(ctx, uow.NotificationRepository(), now, drafts...); err != nil {
		return CreateJobResult{}, err
	}
	batch.Text(customer.Phone(), dispatch.BookingSMS(j))

	if err = uow.Commit(ctx); err != nil {
		return CreateJobResult{}, err
	}
	h.flusher.Flush(ctx, batch)

	return CreateJobResult{Job: j, Payment: p, Estimate: estimate}, nil
}
