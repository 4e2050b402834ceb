package paymentrepo

import (
	"context"
	"strings"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements ports.PaymentRepository using GORM.
// Reads lock the row: every caller reads a payment in order to change it.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormPaymentRepository) Add(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgutil.MapWriteError(err, "payment")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) Update(ctx context.Context, aggregate *payment.Payment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return pgutil.MapWriteError(result.Error, "payment intent")
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payment", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormPaymentRepository) GetByJobID(ctx context.Context, jobID kernel.UUID) (*payment.Payment, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "payment", jobID.String(), "job_id = ?", jobID.Bytes())
}

func (r *GormPaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*payment.Payment, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, errs.NewValueIsRequiredError("intent id")
	}
	return r.first(ctx, "payment intent", intentID, "intent_id = ?", intentID)
}

func (r *GormPaymentRepository) first(ctx context.Context, subject, key string, query string, args ...any) (*payment.Payment, error) {
	var dto PaymentDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(query, args...).
		First(&dto).Error; err != nil {
		return nil, pgutil.MapReadError(err, subject, key)
	}
	return toDomain(dto)
}
