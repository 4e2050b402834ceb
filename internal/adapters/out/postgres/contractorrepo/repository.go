package contractorrepo

import (
	"context"
	"time"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContractorRepository implements ports.ContractorRepository using GORM.
type GormContractorRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormContractorRepository(db *gorm.DB, tracker aggregateTracker) *GormContractorRepository {
	return &GormContractorRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new contractor. A second profile for the same user is a conflict.
func (r *GormContractorRepository) Add(ctx context.Context, aggregate *contractor.Contractor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgutil.MapWriteError(err, "contractor")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormContractorRepository) Update(ctx context.Context, aggregate *contractor.Contractor) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ContractorDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("contractor", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormContractorRepository) Get(ctx context.Context, id kernel.UUID) (*contractor.Contractor, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves a contractor and locks its row until the transaction ends.
func (r *GormContractorRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*contractor.Contractor, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormContractorRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*contractor.Contractor, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ContractorDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.MapReadError(err, "contractor", id.String())
	}

	return toDomain(dto)
}

func (r *GormContractorRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*contractor.Contractor, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto ContractorDTO
	if err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		return nil, pgutil.MapReadError(err, "contractor", userID.String())
	}

	return toDomain(dto)
}

// ListAvailable returns online, approved contractors.
func (r *GormContractorRepository) ListAvailable(ctx context.Context) ([]*contractor.Contractor, error) {
	var dtos []ContractorDTO
	if err := r.db.WithContext(ctx).
		Where("is_online AND approval_status = ?", contractor.Approved.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// ListOnlineNotSeenSince returns online contractors whose last ping is older
// than cutoff or was never recorded.
func (r *GormContractorRepository) ListOnlineNotSeenSince(
	ctx context.Context,
	cutoff time.Time,
) ([]*contractor.Contractor, error) {
	var dtos []ContractorDTO
	if err := r.db.WithContext(ctx).
		Where("is_online AND (last_seen_at IS NULL OR last_seen_at < ?)", cutoff).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func toDomainList(dtos []ContractorDTO) ([]*contractor.Contractor, error) {
	out := make([]*contractor.Contractor, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
