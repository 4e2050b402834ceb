package jobrepo

import (
	"context"
	"time"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activeStatuses are the states in which a driver is working a job.
var activeStatuses = []string{
	job.Accepted.String(),
	job.Assigned.String(),
	job.EnRoute.String(),
	job.Arrived.String(),
	job.Started.String(),
}

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job to the database.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgutil.MapWriteError(err, "job")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves every column of an existing job.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// Select("*") writes zero values too, so cleared references reach the row.
	result := r.db.WithContext(ctx).Model(&JobDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("job", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	return r.get(ctx, r.db, id)
}

// GetForUpdate retrieves a job and locks its row until the transaction ends.
func (r *GormJobRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormJobRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.MapReadError(err, "job", id.String())
	}

	return toDomain(dto)
}

// AcceptPending claims a pending job for the contractor in one statement.
// Of several concurrent calls for the same job exactly one affects a row.
//
// Example:
//
//	err := repo.AcceptPending(ctx, jobID, contractorID, time.Now())
//	if errors.Is(err, errs.ErrConflict) {
//		// another contractor was faster
//	}
func (r *GormJobRepository) AcceptPending(ctx context.Context, id, contractorID kernel.UUID, now time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := contractorID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", id.Bytes(), job.Pending.String()).
		Updates(map[string]any{
			"driver_id":  contractorID.Bytes(),
			"status":     job.Accepted.String(),
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("job", "is no longer pending")
	}
	return nil
}

// FindActiveByDriver returns the most recently updated job the contractor is
// working, or nil.
func (r *GormJobRepository) FindActiveByDriver(ctx context.Context, contractorID kernel.UUID) (*job.Job, error) {
	if err := contractorID.Validate(); err != nil {
		return nil, err
	}

	var dtos []JobDTO
	if err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", contractorID.Bytes(), activeStatuses).
		Order("updated_at DESC").
		Limit(1).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}

	return toDomain(dtos[0])
}
