package queries

import (
	"context"
	"encoding/json"

	"junkos/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ListSurgeZonesQueryHandler struct {
	db *gorm.DB
}

func NewListSurgeZonesQueryHandler(db *gorm.DB) ListSurgeZonesQueryHandler {
	return ListSurgeZonesQueryHandler{db: db}
}

func (h ListSurgeZonesQueryHandler) Handle(ctx context.Context, query ListSurgeZonesQuery) ([]SurgeZoneView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(query.Actor(), "list surge zones"); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			boundary,
			multiplier,
			is_active,
			COALESCE(start_time, ''),
			COALESCE(end_time, ''),
			weekdays,
			updated_at
		FROM surge_zones
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := make([]SurgeZoneView, 0)
	for rows.Next() {
		var (
			z        SurgeZoneView
			id       uuid.UUID
			boundary []byte
			weekdays pq.Int64Array
		)
		err = rows.Scan(&id, &z.Name, &boundary, &z.Multiplier, &z.IsActive,
			&z.StartTime, &z.EndTime, &weekdays, &z.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if z.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}

		z.Boundary = make([]Vertex, 0)
		if len(boundary) > 0 {
			if err = json.Unmarshal(boundary, &z.Boundary); err != nil {
				return nil, err
			}
		}
		z.Weekdays = make([]int, 0, len(weekdays))
		for _, d := range weekdays {
			z.Weekdays = append(z.Weekdays, int(d))
		}
		zones = append(zones, z)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return zones, nil
}
