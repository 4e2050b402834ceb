package queries

import (
	"context"
	"database/sql"
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActorQueryHandler is called once per authenticated request.
type GetActorQueryHandler struct {
	db *gorm.DB
}

func NewGetActorQueryHandler(db *gorm.DB) GetActorQueryHandler {
	return GetActorQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError for a user the identity service never
// wrote, so a valid token of a deleted user does not authenticate.
func (h GetActorQueryHandler) Handle(ctx context.Context, query GetActorQuery) (services.Actor, error) {
	if err := query.Validate(); err != nil {
		return services.Actor{}, err
	}

	var (
		role         string
		contractorID uuid.NullUUID
		isOperator   *bool
	)
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			u.role,
			c.id,
			c.is_operator
		FROM users u
		LEFT JOIN contractors c ON c.user_id = u.id
		WHERE u.id = ?
	`, query.UserID().Bytes()).Row()
	if err := row.Scan(&role, &contractorID, &isOperator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return services.Actor{}, errs.NewObjectNotFoundError("user", query.UserID().String())
		}
		return services.Actor{}, err
	}

	r, err := user.ParseRole(role)
	if err != nil {
		return services.Actor{}, err
	}
	actor := services.Actor{UserID: query.UserID(), Role: r}
	if contractorID.Valid {
		id, idErr := kernel.UUIDFromBytes(contractorID.UUID[:])
		if idErr != nil {
			return services.Actor{}, idErr
		}
		actor.ContractorID = &id
		actor.IsOperator = isOperator != nil && *isOperator
	}
	return actor, nil
}
