// Package pricingrepo persists unit price rules and surge zones.
package pricingrepo

import (
	"time"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/pricing"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RuleDTO is the pricing_rules row. Category is unique.
type RuleDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Category    string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	UnitPrice   int64     `gorm:"type:bigint;not null"`
	IsActive    bool      `gorm:"not null;default:true"`
	Description string    `gorm:"type:text"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (RuleDTO) TableName() string {
	return "pricing_rules"
}

// SurgeZoneDTO is the surge_zones row. The boundary is a jsonb list of
// {"lat","lng"} vertices; weekdays use Monday = 0.
type SurgeZoneDTO struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name       string        `gorm:"type:varchar(100);not null"`
	Boundary   pgutil.JSON   `gorm:"type:jsonb"`
	Multiplier float64       `gorm:"type:numeric(4,2);not null"`
	IsActive   bool          `gorm:"not null;default:true"`
	StartTime  string        `gorm:"type:varchar(5)"`
	EndTime    string        `gorm:"type:varchar(5)"`
	Weekdays   pq.Int64Array `gorm:"type:integer[]"`
	UpdatedAt  time.Time     `gorm:"not null;autoUpdateTime:false"`
}

func (SurgeZoneDTO) TableName() string {
	return "surge_zones"
}

type vertexDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func ruleFromDomain(r *pricing.Rule) RuleDTO {
	return RuleDTO{
		ID:          r.ID().Bytes(),
		Category:    r.Category(),
		UnitPrice:   r.UnitPrice().Cents(),
		IsActive:    r.IsActive(),
		Description: r.Description(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func ruleToDomain(dto RuleDTO) (*pricing.Rule, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return pricing.NewRule(id, dto.Category, kernel.Money(dto.UnitPrice), dto.IsActive, dto.Description, dto.UpdatedAt)
}

func zoneFromDomain(z *pricing.SurgeZone) (SurgeZoneDTO, error) {
	vertices := make([]vertexDTO, 0, len(z.Boundary()))
	for _, p := range z.Boundary() {
		vertices = append(vertices, vertexDTO{Lat: p.Lat(), Lng: p.Lng()})
	}
	boundary, err := pgutil.MarshalJSON(vertices)
	if err != nil {
		return SurgeZoneDTO{}, err
	}

	weekdays := make(pq.Int64Array, 0, len(z.Weekdays()))
	for _, d := range z.Weekdays() {
		weekdays = append(weekdays, int64(d))
	}
	start, end := z.Window().Bounds()

	return SurgeZoneDTO{
		ID:         z.ID().Bytes(),
		Name:       z.Name(),
		Boundary:   boundary,
		Multiplier: z.Multiplier(),
		IsActive:   z.IsActive(),
		StartTime:  start,
		EndTime:    end,
		Weekdays:   weekdays,
		UpdatedAt:  z.UpdatedAt(),
	}, nil
}

func zoneToDomain(dto SurgeZoneDTO) (*pricing.SurgeZone, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	var vertices []vertexDTO
	if err = dto.Boundary.Unmarshal(&vertices); err != nil {
		return nil, err
	}
	boundary := make([]kernel.GeoPoint, 0, len(vertices))
	for _, v := range vertices {
		p, pErr := kernel.NewGeoPoint(v.Lat, v.Lng)
		if pErr != nil {
			return nil, pErr
		}
		boundary = append(boundary, p)
	}

	weekdays := make([]int, 0, len(dto.Weekdays))
	for _, d := range dto.Weekdays {
		weekdays = append(weekdays, int(d))
	}

	return pricing.NewSurgeZone(pricing.SurgeZoneParams{
		ID:         id,
		Name:       dto.Name,
		Boundary:   boundary,
		Multiplier: dto.Multiplier,
		IsActive:   dto.IsActive,
		StartTime:  dto.StartTime,
		EndTime:    dto.EndTime,
		Weekdays:   weekdays,
		UpdatedAt:  dto.UpdatedAt,
	})
}
