// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for their callers and read the tables
// directly with SQL instead of loading aggregates.
package queries

import (
	"errors"
	"math"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

var ErrActorIsRequired = errs.NewValueIsRequiredError("actor")

// Pagination is a 1-based page request.
type Pagination struct {
	Page    int
	PerPage int
}

// NewPagination clamps the request: pages start at 1 and a non-positive size
// means DefaultPerPage.
func NewPagination(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one page of a listing.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Pages int
}

func newPage[T any](items []T, total int64, p Pagination) Page[T] {
	return Page[T]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Pages: int(math.Ceil(float64(total) / float64(p.PerPage))),
	}
}

func validateActor(actor services.Actor) error {
	if err := actor.UserID.Validate(); err != nil {
		return errors.Join(ErrActorIsRequired, err)
	}
	return nil
}

func requireAdmin(actor services.Actor, action string) error {
	if !actor.IsAdmin() {
		return errs.NewForbiddenError(action, "admin role required")
	}
	return nil
}

func requireContractor(actor services.Actor, action string) (kernel.UUID, error) {
	if actor.ContractorID == nil {
		return kernel.UUID{}, errs.NewForbiddenError(action, "contractor profile required")
	}
	return *actor.ContractorID, nil
}

func requireOperator(actor services.Actor, action string) (kernel.UUID, error) {
	if actor.ContractorID == nil || !actor.IsOperator {
		return kernel.UUID{}, errs.NewForbiddenError(action, "operator profile required")
	}
	return *actor.ContractorID, nil
}
