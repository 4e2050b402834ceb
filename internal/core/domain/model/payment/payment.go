package payment

import (
	"errors"
	"strings"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")
	ErrAlreadyPaid             = errs.NewConflictError("payment", "already succeeded")
	ErrPaymentNotSucceeded     = errs.NewConflictError("payout", "requires a succeeded payment")
	ErrPayoutAlreadyPaid       = errs.NewConflictError("payout", "already paid")
)

// Payment is the settlement record of a job. It is created with the job and
// never deleted.
type Payment struct {
	id    kernel.UUID
	jobID kernel.UUID

	split Split
	tip   kernel.Money

	status         Status
	payoutStatus   PayoutStatus
	payoutAttempts int

	intentID           string
	transferID         string
	operatorTransferID string
	refundedAmount     kernel.Money

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewPayment creates the pending settlement row for a freshly booked job.
func NewPayment(id, jobID kernel.UUID, split Split, tip kernel.Money, now time.Time) (*Payment, error) {
	if err := errors.Join(id.Validate(), jobID.Validate()); err != nil {
		return nil, err
	}
	if tip.IsNegative() {
		return nil, errs.NewValueIsOutOfRangeError("tip", tip, 0, "unbounded")
	}

	return &Payment{
		id:            id,
		jobID:         jobID,
		split:         split,
		tip:           tip,
		status:        Pending,
		payoutStatus:  PayoutPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

type RestoreParams struct {
	ID                 kernel.UUID
	JobID              kernel.UUID
	Split              Split
	Tip                kernel.Money
	Status             Status
	PayoutStatus       PayoutStatus
	PayoutAttempts     int
	IntentID           string
	TransferID         string
	OperatorTransferID string
	RefundedAmount     kernel.Money
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func RestorePayment(p RestoreParams) (*Payment, error) {
	if err := errors.Join(
		p.ID.Validate(), p.JobID.Validate(), p.Status.Validate(), p.PayoutStatus.Validate(),
	); err != nil {
		return nil, err
	}
	return &Payment{
		id:                 p.ID,
		jobID:              p.JobID,
		split:              p.Split,
		tip:                p.Tip,
		status:             p.Status,
		payoutStatus:       p.PayoutStatus,
		payoutAttempts:     p.PayoutAttempts,
		intentID:           p.IntentID,
		transferID:         p.TransferID,
		operatorTransferID: p.OperatorTransferID,
		refundedAmount:     p.RefundedAmount,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
		isConstructed:      true,
	}, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

func (p *Payment) ID() kernel.UUID              { return p.id }
func (p *Payment) JobID() kernel.UUID           { return p.jobID }
func (p *Payment) Split() Split                 { return p.split }
func (p *Payment) Amount() kernel.Money         { return p.split.Amount() }
func (p *Payment) Tip() kernel.Money            { return p.tip }
func (p *Payment) Status() Status               { return p.status }
func (p *Payment) PayoutStatus() PayoutStatus   { return p.payoutStatus }
func (p *Payment) PayoutAttempts() int          { return p.payoutAttempts }
func (p *Payment) IntentID() string             { return p.intentID }
func (p *Payment) TransferID() string           { return p.transferID }
func (p *Payment) OperatorTransferID() string   { return p.operatorTransferID }
func (p *Payment) RefundedAmount() kernel.Money { return p.refundedAmount }
func (p *Payment) CreatedAt() time.Time         { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time         { return p.updatedAt }

// EnsureCanCreateIntent is checked before the provider call so that a paid
// job never gets a second intent.
func (p *Payment) EnsureCanCreateIntent() error {
	switch p.status { //nolint:exhaustive
	case Pending, Failed:
		return nil
	case Succeeded:
		return ErrAlreadyPaid
	default:
		return errs.NewConflictError("payment", "is "+p.status.String())
	}
}

// AttachIntent stores the provider intent and the split it was created for.
// A failed payment is reset to pending for the new attempt.
func (p *Payment) AttachIntent(intentID string, split Split, tip kernel.Money, now time.Time) error {
	if err := p.EnsureCanCreateIntent(); err != nil {
		return err
	}
	id := strings.TrimSpace(intentID)
	if id == "" {
		return errs.NewValueIsRequiredError("intent id")
	}
	if tip.IsNegative() {
		return errs.NewValueIsOutOfRangeError("tip", tip, 0, "unbounded")
	}

	p.intentID = id
	p.split = split
	p.tip = tip
	p.status = Pending
	p.updatedAt = now
	return nil
}

// MarkSucceeded reports changed=false when the payment already succeeded.
func (p *Payment) MarkSucceeded(now time.Time) (bool, error) {
	return p.moveTo(Succeeded, now)
}

func (p *Payment) MarkFailed(now time.Time) (bool, error) {
	return p.moveTo(Failed, now)
}

// MarkRefunded records the refunded amount in cents.
func (p *Payment) MarkRefunded(amount kernel.Money, now time.Time) (bool, error) {
	changed, err := p.moveTo(Refunded, now)
	if err != nil || !changed {
		return changed, err
	}
	p.refundedAmount = amount
	return true, nil
}

func (p *Payment) MarkDisputed(now time.Time) (bool, error) {
	return p.moveTo(Disputed, now)
}

// EnsureCanPayout checks the payout preconditions before any transfer.
func (p *Payment) EnsureCanPayout() error {
	if p.status != Succeeded {
		return ErrPaymentNotSucceeded
	}
	if p.payoutStatus == PayoutPaid {
		return ErrPayoutAlreadyPaid
	}
	return nil
}

// RecordDriverTransfer keeps the driver leg of a payout whose operator leg is
// still outstanding, so a retry only repeats the missing transfer.
func (p *Payment) RecordDriverTransfer(transferID string, now time.Time) error {
	if err := p.EnsureCanPayout(); err != nil {
		return err
	}
	id := strings.TrimSpace(transferID)
	if id == "" {
		return errs.NewValueIsRequiredError("transfer id")
	}
	p.transferID = id
	p.updatedAt = now
	return nil
}

func (p *Payment) MarkPayoutPaid(transferID, operatorTransferID string, now time.Time) error {
	if err := p.EnsureCanPayout(); err != nil {
		return err
	}
	p.payoutStatus = PayoutPaid
	p.transferID = transferID
	p.operatorTransferID = operatorTransferID
	p.updatedAt = now
	return nil
}

// MarkPayoutFailed counts the failed attempt. Transfers of the next attempt
// carry new idempotency keys, since the provider replays the stored failure
// for a reused key.
func (p *Payment) MarkPayoutFailed(now time.Time) error {
	if err := p.EnsureCanPayout(); err != nil {
		return err
	}
	p.payoutStatus = PayoutFailed
	p.payoutAttempts++
	p.updatedAt = now
	return nil
}

func (p *Payment) moveTo(to Status, now time.Time) (bool, error) {
	next, changed, err := p.status.TransitionTo(to)
	if err != nil || !changed {
		return false, err
	}
	p.status = next
	p.updatedAt = now
	return true, nil
}
