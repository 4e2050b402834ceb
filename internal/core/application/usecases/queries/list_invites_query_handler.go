package queries

import (
	"context"

	"junkos/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListInvitesQueryHandler struct {
	db *gorm.DB
}

func NewListInvitesQueryHandler(db *gorm.DB) ListInvitesQueryHandler {
	return ListInvitesQueryHandler{db: db}
}

func (h ListInvitesQueryHandler) Handle(ctx context.Context, query ListInvitesQuery) ([]InviteView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	operatorID, err := requireOperator(query.Actor(), "list invites")
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			COALESCE(email, ''),
			max_uses,
			use_count,
			expires_at,
			is_active,
			created_at
		FROM operator_invites
		WHERE operator_id = ?
		ORDER BY created_at DESC, id
	`, operatorID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := make([]InviteView, 0)
	for rows.Next() {
		var (
			v  InviteView
			id uuid.UUID
		)
		err = rows.Scan(&id, &v.Code, &v.Email, &v.MaxUses, &v.UseCount, &v.ExpiresAt, &v.IsActive, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		invites = append(invites, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return invites, nil
}
