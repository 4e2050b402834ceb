package queries

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/guard"
)

var (
	ErrGetActorQueryIsNotConstructed = errors.New(
		"GetActorQuery must be created via NewGetActorQuery constructor",
	)
)

// GetActorQuery resolves an authenticated user id to the caller of a use
// case: the user's role and, when present, the contractor profile.
type GetActorQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActorQuery(userID kernel.UUID) (GetActorQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetActorQuery{}, err
	}
	return GetActorQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActorQuery) Validate() error {
	return q.guard.Validate(ErrGetActorQueryIsNotConstructed)
}

func (q GetActorQuery) UserID() kernel.UUID { return q.userID }
