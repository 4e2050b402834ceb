package payment

import (
	"fmt"
	"strings"

	"junkos/internal/pkg/errs"
)

// Status is the charge state reported by the payment provider.
//
//	pending ──> succeeded ──> refunded
//	   │            └───────> disputed
//	   └──────> failed
type Status int

const (
	StatusUnknown Status = iota
	Pending
	Succeeded
	Failed
	Refunded
	Disputed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		Succeeded:     "succeeded",
		Failed:        "failed",
		Refunded:      "refunded",
		Disputed:      "disputed",
	}
}

func getStatusTransitions() map[Status][]Status {
	//nolint:exhaustive
	return map[Status][]Status{
		Pending:   {Succeeded, Failed},
		Succeeded: {Refunded, Disputed},
	}
}

func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != StatusUnknown && str == name {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("payment status",
		fmt.Errorf("%q is not a valid payment status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// TransitionTo returns the new status. Re-applying the current status is
// reported as unchanged so provider retries can be acknowledged.
func (s Status) TransitionTo(to Status) (next Status, changed bool, err error) {
	if s == to {
		return s, false, nil
	}
	for _, allowed := range getStatusTransitions()[s] {
		if allowed == to {
			return to, true, nil
		}
	}
	return s, false, errs.NewConflictError("payment",
		fmt.Sprintf("cannot move from %s to %s", s, to))
}

// PayoutStatus tracks the transfer to the contractor.
type PayoutStatus int

const (
	PayoutUnknown PayoutStatus = iota
	PayoutPending
	PayoutPaid
	PayoutFailed
)

func getPayoutStrings() map[PayoutStatus]string {
	return map[PayoutStatus]string{
		PayoutUnknown: "unknown",
		PayoutPending: "pending",
		PayoutPaid:    "paid",
		PayoutFailed:  "failed",
	}
}

func ParsePayoutStatus(s string) (PayoutStatus, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getPayoutStrings() {
		if status != PayoutUnknown && str == name {
			return status, nil
		}
	}
	return PayoutUnknown, errs.NewValueIsInvalidErrorWithCause("payout status",
		fmt.Errorf("%q is not a valid payout status", s))
}

func (s PayoutStatus) Validate() error {
	if _, ok := getPayoutStrings()[s]; !ok || s == PayoutUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payout status",
			fmt.Errorf("%d is not a valid payout status", s))
	}
	return nil
}

func (s PayoutStatus) String() string {
	if str, ok := getPayoutStrings()[s]; ok {
		return str
	}
	return "unknown"
}
