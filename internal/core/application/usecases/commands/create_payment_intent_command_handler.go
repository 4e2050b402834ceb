package commands

import (
	"context"
	"time"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

const (
	// DefaultProviderTimeout bounds every call to the payment provider.
	DefaultProviderTimeout = 10 * time.Second

	paymentProvider = "payment provider"
	currency        = "usd"
)

// CreatePaymentIntentResult carries what the client needs to confirm the
// charge, and the payment with the split it was opened for.
type CreatePaymentIntentResult struct {
	IntentID     string
	ClientSecret string
	Payment      *payment.Payment
}

// CreatePaymentIntentCommandHandler computes the settlement split, opens a
// provider intent for it and only then stores the intent on the payment.
// The provider call runs outside any database transaction; a payment that
// succeeded in the meantime is caught when the intent is attached.
type CreatePaymentIntentCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	calculator services.SettlementCalculator
	timeout    time.Duration
	clock      ports.Clock
}

func NewCreatePaymentIntentCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	timeout time.Duration,
	clock ports.Clock,
) CreatePaymentIntentCommandHandler {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return CreatePaymentIntentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		calculator: services.NewSettlementCalculator(),
		timeout:    timeout,
		clock:      clock,
	}
}

func (h CreatePaymentIntentCommandHandler) Handle(
	ctx context.Context,
	cmd CreatePaymentIntentCommand,
) (CreatePaymentIntentResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreatePaymentIntentResult{}, err
	}

	split, paymentID, err := h.prepare(ctx, cmd)
	if err != nil {
		return CreatePaymentIntentResult{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	intent, err := h.gateway.CreatePaymentIntent(callCtx, split.Amount(), currency, map[string]string{
		"job_id":     cmd.JobID().String(),
		"payment_id": paymentID,
	})
	cancel()
	if err != nil {
		return CreatePaymentIntentResult{}, errs.NewGatewayError(paymentProvider, err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreatePaymentIntentResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	paymentRepo := uow.PaymentRepository()
	p, err := paymentRepo.GetByJobID(ctx, cmd.JobID())
	if err != nil {
		return CreatePaymentIntentResult{}, err
	}
	if err = p.AttachIntent(intent.ID, split, cmd.Tip(), h.clock.Now()); err != nil {
		return CreatePaymentIntentResult{}, err
	}
	if err = paymentRepo.Update(ctx, p); err != nil {
		return CreatePaymentIntentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreatePaymentIntentResult{}, err
	}
	return CreatePaymentIntentResult{IntentID: intent.ID, ClientSecret: intent.ClientSecret, Payment: p}, nil
}

// prepare checks ownership and the payment state and computes the split.
func (h CreatePaymentIntentCommandHandler) prepare(
	ctx context.Context,
	cmd CreatePaymentIntentCommand,
) (payment.Split, string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return payment.Split{}, "", err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	j, err := uow.JobRepository().Get(ctx, cmd.JobID())
	if err != nil {
		return payment.Split{}, "", err
	}
	actor := cmd.Actor()
	if !actor.IsAdmin() && !j.CustomerID().IsEqual(actor.UserID) {
		return payment.Split{}, "", errs.NewForbiddenError("pay for job", "not your job")
	}

	p, err := uow.PaymentRepository().GetByJobID(ctx, j.ID())
	if err != nil {
		return payment.Split{}, "", err
	}
	if err = p.EnsureCanCreateIntent(); err != nil {
		return payment.Split{}, "", err
	}

	var operator *contractor.Contractor
	if id := j.OperatorID(); id != nil {
		if operator, err = uow.ContractorRepository().Get(ctx, *id); err != nil {
			return payment.Split{}, "", err
		}
	}

	split, err := h.calculator.Split(j.Price().Total(), cmd.Tip(), operator)
	if err != nil {
		return payment.Split{}, "", err
	}
	return split, p.ID().String(), nil
}
