package job

import (
	"math"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

// PriceBreakdown is the priced composition of a job. Its service fee and total
// are derived from the other components, so no code path can set a total that
// disagrees with them.
type PriceBreakdown struct {
	basePrice        kernel.Money
	itemTotal        kernel.Money
	volumeAdjustment kernel.Money
	surgeMultiplier  float64
	serviceFee       kernel.Money
	total            kernel.Money
}

// NewPriceBreakdown computes
//
//	surged   = (base + items + volumeAdjustment) * surge
//	fee      = round(surged * feeRate)
//	total    = round(surged) + fee
func NewPriceBreakdown(
	basePrice, itemTotal, volumeAdjustment kernel.Money,
	surgeMultiplier, feeRate float64,
) (PriceBreakdown, error) {
	if surgeMultiplier < 1 {
		return PriceBreakdown{}, errs.NewValueIsOutOfRangeError("surge multiplier", surgeMultiplier, 1, "unbounded")
	}
	if feeRate < 0 {
		return PriceBreakdown{}, errs.NewValueIsOutOfRangeError("service fee rate", feeRate, 0, 1)
	}

	subtotal := basePrice.Add(itemTotal).Add(volumeAdjustment)
	surged := float64(subtotal) * surgeMultiplier
	fee := kernel.Money(math.Round(surged * feeRate))

	return PriceBreakdown{
		basePrice:        basePrice,
		itemTotal:        itemTotal,
		volumeAdjustment: volumeAdjustment,
		surgeMultiplier:  surgeMultiplier,
		serviceFee:       fee,
		total:            kernel.Money(math.Round(surged)).Add(fee),
	}, nil
}

// RestorePriceBreakdown rebuilds a persisted breakdown. The stored fee is
// kept because the fee rate may have changed since booking; the total is
// recomputed from the components.
func RestorePriceBreakdown(
	basePrice, itemTotal, volumeAdjustment kernel.Money,
	surgeMultiplier float64,
	serviceFee kernel.Money,
) PriceBreakdown {
	subtotal := basePrice.Add(itemTotal).Add(volumeAdjustment)
	return PriceBreakdown{
		basePrice:        basePrice,
		itemTotal:        itemTotal,
		volumeAdjustment: volumeAdjustment,
		surgeMultiplier:  surgeMultiplier,
		serviceFee:       serviceFee,
		total:            subtotal.MulRate(surgeMultiplier).Add(serviceFee),
	}
}

func (p PriceBreakdown) BasePrice() kernel.Money        { return p.basePrice }
func (p PriceBreakdown) ItemTotal() kernel.Money        { return p.itemTotal }
func (p PriceBreakdown) VolumeAdjustment() kernel.Money { return p.volumeAdjustment }
func (p PriceBreakdown) SurgeMultiplier() float64       { return p.surgeMultiplier }
func (p PriceBreakdown) ServiceFee() kernel.Money       { return p.serviceFee }
func (p PriceBreakdown) Total() kernel.Money            { return p.total }

// Subtotal is base + items + volume adjustment, before surge and fee.
func (p PriceBreakdown) Subtotal() kernel.Money {
	return p.basePrice.Add(p.itemTotal).Add(p.volumeAdjustment)
}
