package services

import (
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/pkg/errs"
)

const (
	// PlatformCommissionRate is the gross platform share of the amount.
	PlatformCommissionRate = 0.20

	// FlatServiceFee is withheld from the driver payout on every job.
	FlatServiceFee kernel.Money = 1500
)

// SettlementCalculator splits a charged amount between the platform, the
// driver and, for delegated jobs, the operator. The operator share is carved
// out of the platform commission and never exceeds it, so
//
//	commission + driver payout + operator payout + flat fee == amount
//
// holds in cents for every split it returns.
type SettlementCalculator struct {
	commissionRate float64
	flatFee        kernel.Money
}

func NewSettlementCalculator() SettlementCalculator {
	return SettlementCalculator{commissionRate: PlatformCommissionRate, flatFee: FlatServiceFee}
}

// Split computes the shares of jobTotal + tip. operator is nil for jobs that
// were not delegated.
func (s SettlementCalculator) Split(jobTotal, tip kernel.Money, operator *contractor.Contractor) (payment.Split, error) {
	if tip.IsNegative() {
		return payment.Split{}, errs.NewValueIsOutOfRangeError("tip", tip, 0, "unbounded")
	}
	amount := jobTotal.Add(tip)
	gross := amount.MulRate(s.commissionRate)

	var operatorPayout kernel.Money
	if operator != nil {
		operatorPayout = amount.MulRate(operator.OperatorCommissionRate())
		if operatorPayout > gross {
			operatorPayout = gross
		}
	}

	driverPayout := amount.Sub(gross).Sub(s.flatFee)
	return payment.NewSplit(amount, gross.Sub(operatorPayout), driverPayout, operatorPayout, s.flatFee)
}
