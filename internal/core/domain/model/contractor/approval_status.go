package contractor

import (
	"fmt"
	"strings"

	"junkos/internal/pkg/errs"
)

// ApprovalStatus is the admin review state of a contractor profile.
type ApprovalStatus int

const (
	ApprovalUnknown ApprovalStatus = iota
	ApprovalPending
	Approved
	Suspended
)

func getApprovalStrings() map[ApprovalStatus]string {
	return map[ApprovalStatus]string{
		ApprovalUnknown: "unknown",
		ApprovalPending: "pending",
		Approved:        "approved",
		Suspended:       "suspended",
	}
}

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, str := range getApprovalStrings() {
		if status != ApprovalUnknown && str == name {
			return status, nil
		}
	}
	return ApprovalUnknown, errs.NewValueIsInvalidErrorWithCause("approval status",
		fmt.Errorf("%q is not a valid approval status", s))
}

func (s ApprovalStatus) Validate() error {
	if _, ok := getApprovalStrings()[s]; !ok || s == ApprovalUnknown {
		return errs.NewValueIsInvalidErrorWithCause("approval status",
			fmt.Errorf("%d is not a valid approval status", s))
	}
	return nil
}

func (s ApprovalStatus) String() string {
	if str, ok := getApprovalStrings()[s]; ok {
		return str
	}
	return "unknown"
}
