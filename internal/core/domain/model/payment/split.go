package payment

import (
	"fmt"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

// Split is how a charged amount is divided:
//
//	amount == commission + driverPayout + operatorPayout + serviceFee
//
// The equality is exact in cents.
type Split struct {
	amount         kernel.Money
	commission     kernel.Money
	driverPayout   kernel.Money
	operatorPayout kernel.Money
	serviceFee     kernel.Money
}

// NewSplit validates the conservation rule and that no share is negative.
func NewSplit(amount, commission, driverPayout, operatorPayout, serviceFee kernel.Money) (Split, error) {
	if driverPayout.IsNegative() {
		return Split{}, errs.NewValueIsOutOfRangeError("driver payout", driverPayout, 0, amount)
	}
	if commission.IsNegative() || operatorPayout.IsNegative() || serviceFee.IsNegative() {
		return Split{}, errs.NewValueIsInvalidErrorWithCause("split", fmt.Errorf("negative share"))
	}
	if sum := commission + driverPayout + operatorPayout + serviceFee; sum != amount {
		return Split{}, errs.NewValueIsInvalidErrorWithCause("split",
			fmt.Errorf("shares add up to %s, amount is %s", sum, amount))
	}
	return Split{
		amount:         amount,
		commission:     commission,
		driverPayout:   driverPayout,
		operatorPayout: operatorPayout,
		serviceFee:     serviceFee,
	}, nil
}

func (s Split) Amount() kernel.Money         { return s.amount }
func (s Split) Commission() kernel.Money     { return s.commission }
func (s Split) DriverPayout() kernel.Money   { return s.driverPayout }
func (s Split) OperatorPayout() kernel.Money { return s.operatorPayout }
func (s Split) ServiceFee() kernel.Money     { return s.serviceFee }
