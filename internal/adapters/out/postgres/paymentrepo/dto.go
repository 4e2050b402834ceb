// Package paymentrepo persists the Payment aggregate. Amounts are integer
// cents.
package paymentrepo

import (
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// PaymentDTO is the payments row, one per job.
type PaymentDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Amount         int64 `gorm:"type:bigint;not null"`
	Commission     int64 `gorm:"type:bigint;not null"`
	DriverPayout   int64 `gorm:"type:bigint;not null"`
	OperatorPayout int64 `gorm:"type:bigint;not null;default:0"`
	ServiceFee     int64 `gorm:"type:bigint;not null"`
	Tip            int64 `gorm:"type:bigint;not null;default:0"`
	RefundedAmount int64 `gorm:"type:bigint;not null;default:0"`

	Status         string `gorm:"type:varchar(20);not null;index"`
	PayoutStatus   string `gorm:"type:varchar(20);not null;index"`
	PayoutAttempts int    `gorm:"not null;default:0"`

	IntentID           *string `gorm:"type:varchar(255);uniqueIndex"`
	TransferID         string  `gorm:"type:varchar(255)"`
	OperatorTransferID string  `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (PaymentDTO) TableName() string {
	return "payments"
}

func fromDomain(p *payment.Payment) PaymentDTO {
	var intentID *string
	if p.IntentID() != "" {
		id := p.IntentID()
		intentID = &id
	}
	split := p.Split()

	return PaymentDTO{
		ID:                 p.ID().Bytes(),
		JobID:              p.JobID().Bytes(),
		Amount:             split.Amount().Cents(),
		Commission:         split.Commission().Cents(),
		DriverPayout:       split.DriverPayout().Cents(),
		OperatorPayout:     split.OperatorPayout().Cents(),
		ServiceFee:         split.ServiceFee().Cents(),
		Tip:                p.Tip().Cents(),
		RefundedAmount:     p.RefundedAmount().Cents(),
		Status:             p.Status().String(),
		PayoutStatus:       p.PayoutStatus().String(),
		PayoutAttempts:     p.PayoutAttempts(),
		IntentID:           intentID,
		TransferID:         p.TransferID(),
		OperatorTransferID: p.OperatorTransferID(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}

func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	jobID, err := kernel.UUIDFromGoogle(dto.JobID)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	payoutStatus, err := payment.ParsePayoutStatus(dto.PayoutStatus)
	if err != nil {
		return nil, err
	}
	split, err := payment.NewSplit(
		kernel.Money(dto.Amount),
		kernel.Money(dto.Commission),
		kernel.Money(dto.DriverPayout),
		kernel.Money(dto.OperatorPayout),
		kernel.Money(dto.ServiceFee),
	)
	if err != nil {
		return nil, err
	}

	var intentID string
	if dto.IntentID != nil {
		intentID = *dto.IntentID
	}

	return payment.RestorePayment(payment.RestoreParams{
		ID:                 id,
		JobID:              jobID,
		Split:              split,
		Tip:                kernel.Money(dto.Tip),
		Status:             status,
		PayoutStatus:       payoutStatus,
		PayoutAttempts:     dto.PayoutAttempts,
		IntentID:           intentID,
		TransferID:         dto.TransferID,
		OperatorTransferID: dto.OperatorTransferID,
		RefundedAmount:     kernel.Money(dto.RefundedAmount),
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	})
}
