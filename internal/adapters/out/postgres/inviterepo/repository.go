package inviterepo

import (
	"context"
	"strings"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/invite"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInviteRepository implements ports.InviteRepository using GORM.
type GormInviteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormInviteRepository(db *gorm.DB, tracker aggregateTracker) *GormInviteRepository {
	return &GormInviteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new invite. A code collision is reported as a conflict so the
// caller can draw another code.
func (r *GormInviteRepository) Add(ctx context.Context, aggregate *invite.Invite) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgutil.MapWriteError(err, "invite code")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormInviteRepository) Update(ctx context.Context, aggregate *invite.Invite) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&InviteDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("invite", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormInviteRepository) Get(ctx context.Context, id kernel.UUID) (*invite.Invite, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto InviteDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.MapReadError(err, "invite", id.String())
	}
	return toDomain(dto)
}

// GetByCode locks the invite row: the caller is about to consume a use.
func (r *GormInviteRepository) GetByCode(ctx context.Context, code string) (*invite.Invite, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errs.NewValueIsRequiredError("invite code")
	}

	var dto InviteDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "code = ?", code).Error; err != nil {
		return nil, pgutil.MapReadError(err, "invite", code)
	}
	return toDomain(dto)
}

func (r *GormInviteRepository) ListActive(ctx context.Context) ([]*invite.Invite, error) {
	var dtos []InviteDTO
	if err := r.db.WithContext(ctx).Where("is_active").Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*invite.Invite, 0, len(dtos))
	for _, dto := range dtos {
		i, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}
