package queries

import (
	"context"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetFleetQueryHandler struct {
	db *gorm.DB
}

func NewGetFleetQueryHandler(db *gorm.DB) GetFleetQueryHandler {
	return GetFleetQueryHandler{db: db}
}

// Handle returns the fleet ordered by name.
func (h GetFleetQueryHandler) Handle(ctx context.Context, query GetFleetQuery) ([]FleetMember, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	operatorID, err := requireOperator(query.Actor(), "list fleet")
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			COALESCE(u.name, ''),
			COALESCE(u.email, ''),
			c.truck_type,
			c.is_online,
			c.rating,
			c.total_jobs,
			c.approval_status
		FROM contractors c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.operator_id = ?
		ORDER BY u.name, c.id
	`, operatorID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fleet := make([]FleetMember, 0)
	for rows.Next() {
		var (
			m        FleetMember
			id       uuid.UUID
			approval string
		)
		if err = rows.Scan(&id, &m.Name, &m.Email, &m.TruckType, &m.IsOnline, &m.Rating, &m.TotalJobs, &approval); err != nil {
			return nil, err
		}
		if m.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if m.ApprovalStatus, err = contractor.ParseApprovalStatus(approval); err != nil {
			return nil, err
		}
		fleet = append(fleet, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fleet, nil
}
