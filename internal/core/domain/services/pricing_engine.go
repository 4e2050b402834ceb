package services

import (
	"fmt"
	"time"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/pkg/errs"
)

const (
	// BasePrice is the flat platform charge of every job.
	BasePrice kernel.Money = 9900

	// ServiceFeeRate is applied to the surged subtotal.
	ServiceFeeRate = 0.08

	// OtherCategory is the fallback category for unknown item types.
	OtherCategory = "other"

	baseMinutes    = 30
	minutesPerItem = 8
)

// FallbackPrices are used when no active rule exists for a category.
func FallbackPrices() map[string]kernel.Money {
	return map[string]kernel.Money{
		"furniture":    7500,
		"appliances":   10000,
		"electronics":  5000,
		"construction": 8500,
		"yard_waste":   6000,
		"general":      4500,
		OtherCategory:  5500,
	}
}

// VolumeDiscountRate is the step function on the total item quantity.
func VolumeDiscountRate(quantity int) float64 {
	switch {
	case quantity >= 7:
		return 0.15
	case quantity >= 4:
		return 0.10
	default:
		return 0
	}
}

// SurgePolicy decides whether a surge zone applies to a job.
type SurgePolicy interface {
	Applies(zone *pricing.SurgeZone, at *kernel.GeoPoint, now time.Time) bool
}

// SurgeByTimeWindow matches zones on their day and time filters only. The
// boundary polygon is ignored, as bookings always were priced.
type SurgeByTimeWindow struct{}

func (SurgeByTimeWindow) Applies(zone *pricing.SurgeZone, _ *kernel.GeoPoint, now time.Time) bool {
	return zone.AppliesAt(now)
}

// SurgeByTimeWindowAndBoundary additionally requires the job location to be
// inside the zone polygon. Zones without a boundary still apply everywhere.
type SurgeByTimeWindowAndBoundary struct{}

func (SurgeByTimeWindowAndBoundary) Applies(zone *pricing.SurgeZone, at *kernel.GeoPoint, now time.Time) bool {
	return zone.AppliesAt(now) && zone.Contains(at)
}

// PricedLine is one item line with its resolved unit price.
type PricedLine struct {
	Category  string
	Quantity  int
	UnitPrice kernel.Money
	LineTotal kernel.Money
}

// Estimate is the output of PricingEngine.Estimate.
type Estimate struct {
	Price                    job.PriceBreakdown
	EstimatedDurationMinutes int
	TotalQuantity            int
	Lines                    []PricedLine
}

// PricingEngine computes job prices from item lines, pricing rules and surge
// zones.
//
// Algorithm:
//   - unit price per line: active rule, else fallback table, else "other"
//   - volume discount on the total quantity (0%, 10%, 15%)
//   - subtotal = base + items + volume adjustment
//   - surge = max multiplier of applicable zones, at least 1.0
//   - fee = 8% of the surged subtotal, total = surged subtotal + fee
//
// Example usage:
//
//	engine := services.NewPricingEngine(services.SurgeByTimeWindow{})
//	est, err := engine.Estimate(items, location, rules, zones, time.Now())
//	// est.Price.Total() == 26892 for two furniture items at $75
type PricingEngine struct {
	surge SurgePolicy
}

func NewPricingEngine(surge SurgePolicy) PricingEngine {
	if surge == nil {
		surge = SurgeByTimeWindow{}
	}
	return PricingEngine{surge: surge}
}

// Estimate prices the given lines.
//
// Returns:
//   - Estimate: the price breakdown, duration and per-line prices
//   - error: a validation error when no line has a positive quantity
func (e PricingEngine) Estimate(
	lines []job.LineItem,
	at *kernel.GeoPoint,
	rules []*pricing.Rule,
	zones []*pricing.SurgeZone,
	now time.Time,
) (Estimate, error) {
	prices := e.unitPrices(rules)

	var (
		itemTotal kernel.Money
		quantity  int
		priced    = make([]PricedLine, 0, len(lines))
	)
	for _, l := range lines {
		if l.Quantity() <= 0 {
			continue
		}
		unit, ok := prices[l.Category()]
		if !ok {
			unit = prices[OtherCategory]
		}
		lineTotal := unit.MulInt(l.Quantity())
		itemTotal = itemTotal.Add(lineTotal)
		quantity += l.Quantity()
		priced = append(priced, PricedLine{
			Category:  l.Category(),
			Quantity:  l.Quantity(),
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
	}
	if quantity == 0 {
		return Estimate{}, errs.NewValueIsInvalidErrorWithCause("items",
			fmt.Errorf("at least one item with a positive quantity is required"))
	}

	volumeAdjustment := -itemTotal.MulRate(VolumeDiscountRate(quantity))

	price, err := job.NewPriceBreakdown(BasePrice, itemTotal, volumeAdjustment,
		e.SurgeMultiplier(zones, at, now), ServiceFeeRate)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{
		Price:                    price,
		EstimatedDurationMinutes: baseMinutes + quantity*minutesPerItem,
		TotalQuantity:            quantity,
		Lines:                    priced,
	}, nil
}

// SurgeMultiplier returns the highest multiplier among applicable zones, or
// 1.0 when none applies.
func (e PricingEngine) SurgeMultiplier(zones []*pricing.SurgeZone, at *kernel.GeoPoint, now time.Time) float64 {
	surge := 1.0
	for _, z := range zones {
		if z == nil || !e.surge.Applies(z, at, now) {
			continue
		}
		if z.Multiplier() > surge {
			surge = z.Multiplier()
		}
	}
	return surge
}

func (e PricingEngine) unitPrices(rules []*pricing.Rule) map[string]kernel.Money {
	prices := FallbackPrices()
	for _, r := range rules {
		if r != nil && r.IsActive() {
			prices[r.Category()] = r.UnitPrice()
		}
	}
	return prices
}
