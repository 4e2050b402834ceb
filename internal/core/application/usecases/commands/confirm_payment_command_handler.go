package commands

import (
	"context"
	"time"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// ConfirmPaymentCommandHandler marks a payment succeeded once the provider
// confirms the intent was charged. Confirming twice is a no-op.
type ConfirmPaymentCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	gateway    ports.PaymentGateway
	effects    paymentEffects
	timeout    time.Duration
	clock      ports.Clock
}

func NewConfirmPaymentCommandHandler(
	uowFactory UoWFactory,
	flusher EventFlusher,
	gateway ports.PaymentGateway,
	timeout time.Duration,
	clock ports.Clock,
) ConfirmPaymentCommandHandler {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		gateway:    gateway,
		effects:    paymentEffects{planner: services.NewNotificationPlanner()},
		timeout:    timeout,
		clock:      clock,
	}
}

func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*payment.Payment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	charged, err := h.gateway.IntentSucceeded(callCtx, cmd.IntentID())
	cancel()
	if err != nil {
		return nil, errs.NewGatewayError(paymentProvider, err)
	}
	if !charged {
		return nil, errs.NewConflictError("payment", "is not confirmed by the provider")
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PaymentRepository().GetByIntentID(ctx, cmd.IntentID())
	if err != nil {
		return nil, err
	}
	j, err := uow.JobRepository().Get(ctx, p.JobID())
	if err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if !actor.IsAdmin() && !j.CustomerID().IsEqual(actor.UserID) {
		return nil, errs.NewForbiddenError("confirm payment", "not your job")
	}

	batch := dispatch.NewBatch()
	if _, err = h.effects.succeeded(ctx, uow, p, now, batch); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	h.flusher.Flush(ctx, batch)

	return p, nil
}
