package commands

import (
	"context"
	"fmt"
	"time"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// TriggerPayoutCommandHandler transfers the driver payout, and the operator
// payout of delegated jobs, to the connected accounts. A failed transfer
// marks the payout failed so an admin can retry it. Idempotency keys are
// scoped to payment, recipient and failed attempt count; a leg that already
// went through is kept and not sent again.
type TriggerPayoutCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.PaymentGateway
	planner    services.NotificationPlanner
	timeout    time.Duration
	clock      ports.Clock
}

func NewTriggerPayoutCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PaymentGateway,
	timeout time.Duration,
	clock ports.Clock,
) TriggerPayoutCommandHandler {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return TriggerPayoutCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		planner:    services.NewNotificationPlanner(),
		timeout:    timeout,
		clock:      clock,
	}
}

func (h TriggerPayoutCommandHandler) Handle(ctx context.Context, cmd TriggerPayoutCommand) (*payment.Payment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(cmd.Actor(), "trigger payout"); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	j, err := uow.JobRepository().Get(ctx, cmd.JobID())
	if err != nil {
		return nil, err
	}
	paymentRepo := uow.PaymentRepository()
	p, err := paymentRepo.GetByJobID(ctx, j.ID())
	if err != nil {
		return nil, err
	}
	if err = p.EnsureCanPayout(); err != nil {
		return nil, err
	}

	if j.DriverID() == nil {
		return nil, errs.NewConflictError("job", "has no driver to pay out")
	}
	contractorRepo := uow.ContractorRepository()
	driver, err := contractorRepo.Get(ctx, *j.DriverID())
	if err != nil {
		return nil, err
	}
	if driver.ConnectAccountID() == "" {
		return nil, errs.NewConflictError("contractor", "has no payout account")
	}

	var operator *contractor.Contractor
	if id := j.OperatorID(); id != nil && p.Split().OperatorPayout() > 0 {
		if operator, err = contractorRepo.Get(ctx, *id); err != nil {
			return nil, err
		}
		if operator.ConnectAccountID() == "" {
			return nil, errs.NewConflictError("operator", "has no payout account")
		}
	}

	transferID := p.TransferID()
	if transferID == "" {
		transferID, err = h.transfer(ctx, p, "driver", p.Split().DriverPayout(), driver.ConnectAccountID())
		if err != nil {
			return nil, h.fail(ctx, uow, paymentRepo, p, err)
		}
		if err = p.RecordDriverTransfer(transferID, h.clock.Now()); err != nil {
			return nil, err
		}
	}
	var operatorTransferID string
	if operator != nil {
		operatorTransferID, err = h.transfer(ctx, p, "operator", p.Split().OperatorPayout(), operator.ConnectAccountID())
		if err != nil {
			return nil, h.fail(ctx, uow, paymentRepo, p, err)
		}
	}

	now := h.clock.Now()
	if err = p.MarkPayoutPaid(transferID, operatorTransferID, now); err != nil {
		return nil, err
	}
	if err = paymentRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err = persistDrafts(ctx, uow.NotificationRepository(), now,
		h.planner.PayoutSent(j.ID(), p, driver.UserID())); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (h TriggerPayoutCommandHandler) transfer(
	ctx context.Context,
	p *payment.Payment,
	recipient string,
	amount kernel.Money,
	destination string,
) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	return h.gateway.CreateTransfer(callCtx, amount, destination, map[string]string{
		"job_id":          p.JobID().String(),
		"payment_id":      p.ID().String(),
		"recipient":       recipient,
		"idempotency_key": payoutIdempotencyKey(p, recipient),
	})
}

func payoutIdempotencyKey(p *payment.Payment, recipient string) string {
	return fmt.Sprintf("payout:%s:%s:%d", p.ID(), recipient, p.PayoutAttempts())
}

// fail records the failed payout and returns the provider error.
func (h TriggerPayoutCommandHandler) fail(
	ctx context.Context,
	uow UoW,
	repo ports.PaymentRepository,
	p *payment.Payment,
	cause error,
) error {
	if err := p.MarkPayoutFailed(h.clock.Now()); err != nil {
		return err
	}
	if err := repo.Update(ctx, p); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}
	return errs.NewGatewayError(paymentProvider, cause)
}
