package queries

import (
	"errors"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrListSurgeZonesQueryIsNotConstructed = errors.New(
		"ListSurgeZonesQuery must be created via NewListSurgeZonesQuery constructor",
	)
)

type ListSurgeZonesQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewListSurgeZonesQuery(actor services.Actor) (ListSurgeZonesQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListSurgeZonesQuery{}, err
	}
	return ListSurgeZonesQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListSurgeZonesQuery) Validate() error {
	return q.guard.Validate(ErrListSurgeZonesQueryIsNotConstructed)
}

func (q ListSurgeZonesQuery) Actor() services.Actor { return q.actor }

// Vertex is one corner of a surge zone polygon.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SurgeZoneView carries the window bounds as stored, "HH:MM" or empty.
type SurgeZoneView struct {
	ID         kernel.UUID
	Name       string
	Boundary   []Vertex
	Multiplier float64
	IsActive   bool
	StartTime  string
	EndTime    string
	Weekdays   []int
	UpdatedAt  time.Time
}
