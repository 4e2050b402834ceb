package pricingrepo

import (
	"context"
	"strings"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPricingRepository implements ports.PricingRepository using GORM.
type GormPricingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPricingRepository(db *gorm.DB, tracker aggregateTracker) *GormPricingRepository {
	return &GormPricingRepository{
		db:      db,
		tracker: tracker,
	}
}

// ListRules returns every rule ordered by category, inactive ones included.
func (r *GormPricingRepository) ListRules(ctx context.Context) ([]*pricing.Rule, error) {
	var dtos []RuleDTO
	if err := r.db.WithContext(ctx).Order("category").Find(&dtos).Error; err != nil {
		return nil, err
	}

	rules := make([]*pricing.Rule, 0, len(dtos))
	for _, dto := range dtos {
		rule, err := ruleToDomain(dto)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r *GormPricingRepository) GetRuleByCategory(ctx context.Context, category string) (*pricing.Rule, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, errs.NewValueIsRequiredError("category")
	}

	var dto RuleDTO
	if err := r.db.WithContext(ctx).First(&dto, "category = ?", category).Error; err != nil {
		return nil, pgutil.MapReadError(err, "pricing rule", category)
	}
	return ruleToDomain(dto)
}

// SaveRule upserts on the category so that concurrent admins editing the
// same category end with one row.
func (r *GormPricingRepository) SaveRule(ctx context.Context, rule *pricing.Rule) error {
	dto := ruleFromDomain(rule)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"unit_price", "is_active", "description", "updated_at"}),
	}).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(rule.ID(), rule)
	return nil
}

// ListSurgeZones returns every zone, inactive ones included.
func (r *GormPricingRepository) ListSurgeZones(ctx context.Context) ([]*pricing.SurgeZone, error) {
	var dtos []SurgeZoneDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	zones := make([]*pricing.SurgeZone, 0, len(dtos))
	for _, dto := range dtos {
		zone, err := zoneToDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

func (r *GormPricingRepository) GetSurgeZone(ctx context.Context, id kernel.UUID) (*pricing.SurgeZone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SurgeZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgutil.MapReadError(err, "surge zone", id.String())
	}
	return zoneToDomain(dto)
}

func (r *GormPricingRepository) SaveSurgeZone(ctx context.Context, zone *pricing.SurgeZone) error {
	dto, err := zoneFromDomain(zone)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Save(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(zone.ID(), zone)
	return nil
}
