package queries

import (
	"errors"
	"slices"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrEstimatePriceQueryIsNotConstructed = errors.New(
		"EstimatePriceQuery must be created via NewEstimatePriceQuery constructor",
	)
)

// EstimatePriceQuery prices a prospective booking without storing anything.
// It needs no authentication.
//
// Example:
//
//	sofa, _ := job.NewLineItem("furniture", 2, nil)
//	query, err := NewEstimatePriceQuery([]job.LineItem{sofa}, location)
//	est, err := handler.Handle(ctx, query)
//	// est.Price.Total() == 26892 without surge
type EstimatePriceQuery struct {
	items    []job.LineItem
	location *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewEstimatePriceQuery(items []job.LineItem, location *kernel.GeoPoint) (EstimatePriceQuery, error) {
	if len(items) == 0 {
		return EstimatePriceQuery{}, errs.NewValueIsRequiredError("items")
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return EstimatePriceQuery{}, err
		}
	}
	return EstimatePriceQuery{
		items:    slices.Clone(items),
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q EstimatePriceQuery) Validate() error {
	return q.guard.Validate(ErrEstimatePriceQueryIsNotConstructed)
}

func (q EstimatePriceQuery) Items() []job.LineItem      { return q.items }
func (q EstimatePriceQuery) Location() *kernel.GeoPoint { return q.location }
