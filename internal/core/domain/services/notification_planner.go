package services

import (
	"fmt"
	"time"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"
	"junkos/internal/core/domain/model/payment"
)

// Draft is a notification not yet persisted.
type Draft struct {
	UserID kernel.UUID
	Type   notification.Type
	Title  string
	Body   string
	Data   map[string]any
}

// Build turns the draft into a notification aggregate.
func (d Draft) Build(now time.Time) (*notification.Notification, error) {
	return notification.NewNotification(kernel.NewUUID(), d.UserID, d.Type, d.Title, d.Body, d.Data, now)
}

// NotificationPlanner decides the wording and recipients of user
// notifications. It holds no state; callers persist the drafts it returns.
type NotificationPlanner struct{}

func NewNotificationPlanner() NotificationPlanner {
	return NotificationPlanner{}
}

func (NotificationPlanner) NewJobAvailable(j *job.Job, contractorUserID kernel.UUID) Draft {
	return Draft{
		UserID: contractorUserID,
		Type:   notification.TypeNewJob,
		Title:  "New Job Available",
		Body:   "A new junk removal job is available near you.",
		Data:   map[string]any{"job_id": j.ID().String(), "address": j.Address()},
	}
}

// JobAccepted tells the customer a contractor took the job directly.
func (NotificationPlanner) JobAccepted(j *job.Job) Draft {
	return Draft{
		UserID: j.CustomerID(),
		Type:   notification.TypeJobUpdate,
		Title:  "Driver Assigned",
		Body:   "A driver has accepted your job.",
		Data:   statusData(j),
	}
}

// JobAssigned returns the contractor and customer notifications of an admin
// assignment or an operator delegation.
func (NotificationPlanner) JobAssigned(j *job.Job, contractorUserID kernel.UUID, byOperator bool) []Draft {
	assigner := "An admin"
	if byOperator {
		assigner = "Your operator"
	}
	return []Draft{
		{
			UserID: contractorUserID,
			Type:   notification.TypeJobAssigned,
			Title:  "New Job Assigned",
			Body:   fmt.Sprintf("%s has assigned you a job at %s.", assigner, j.Address()),
			Data: map[string]any{
				"job_id":      j.ID().String(),
				"address":     j.Address(),
				"total_price": j.Price().Total().Float64(),
			},
		},
		{
			UserID: j.CustomerID(),
			Type:   notification.TypeJobUpdate,
			Title:  "Driver Assigned",
			Body:   "A driver has been assigned to your job.",
			Data:   statusData(j),
		},
	}
}

// JobRoutedToFleet tells an operator that an admin pre-routed a job to
// their fleet for delegation.
func (NotificationPlanner) JobRoutedToFleet(j *job.Job, operatorUserID kernel.UUID) Draft {
	return Draft{
		UserID: operatorUserID,
		Type:   notification.TypeJobAssigned,
		Title:  "New Fleet Job",
		Body:   fmt.Sprintf("A job at %s is waiting to be delegated to your fleet.", j.Address()),
		Data: map[string]any{
			"job_id":      j.ID().String(),
			"address":     j.Address(),
			"total_price": j.Price().Total().Float64(),
		},
	}
}

// StatusChanged is the customer notification of any other transition.
func (NotificationPlanner) StatusChanged(j *job.Job) Draft {
	return Draft{
		UserID: j.CustomerID(),
		Type:   notification.TypeJobUpdate,
		Title:  "Job " + j.Status().Title(),
		Body:   fmt.Sprintf("Your job status has been updated to %s.", j.Status()),
		Data:   statusData(j),
	}
}

func (NotificationPlanner) PaymentConfirmed(j *job.Job, p *payment.Payment, contractorUserID kernel.UUID) Draft {
	return Draft{
		UserID: contractorUserID,
		Type:   notification.TypePayment,
		Title:  "Payment Confirmed",
		Body:   fmt.Sprintf("Payment of %s confirmed for job at %s.", p.Amount(), j.Address()),
		Data:   map[string]any{"job_id": j.ID().String(), "amount": p.Amount().Float64()},
	}
}

func (NotificationPlanner) PaymentFailed(j *job.Job, p *payment.Payment) Draft {
	return Draft{
		UserID: j.CustomerID(),
		Type:   notification.TypePayment,
		Title:  "Payment Failed",
		Body:   fmt.Sprintf("Your payment of %s could not be processed.", p.Amount()),
		Data:   map[string]any{"job_id": j.ID().String()},
	}
}

func (NotificationPlanner) RefundProcessed(j *job.Job, refunded kernel.Money) Draft {
	return Draft{
		UserID: j.CustomerID(),
		Type:   notification.TypePayment,
		Title:  "Refund Processed",
		Body:   fmt.Sprintf("A refund of %s has been issued.", refunded),
		Data:   map[string]any{"job_id": j.ID().String(), "amount": refunded.Float64()},
	}
}

func (NotificationPlanner) PayoutSent(jobID kernel.UUID, p *payment.Payment, contractorUserID kernel.UUID) Draft {
	return Draft{
		UserID: contractorUserID,
		Type:   notification.TypePayment,
		Title:  "Payout Sent",
		Body:   fmt.Sprintf("%s has been sent to your account.", p.Split().DriverPayout()),
		Data:   map[string]any{"job_id": jobID.String(), "amount": p.Split().DriverPayout().Float64()},
	}
}

func (NotificationPlanner) ApplicationApproved(c *contractor.Contractor) Draft {
	return Draft{
		UserID: c.UserID(),
		Type:   notification.TypeSystem,
		Title:  "Application Approved",
		Body:   "Your contractor application has been approved. You can now go online and accept jobs.",
		Data:   map[string]any{"approval_status": c.ApprovalStatus().String()},
	}
}

func (NotificationPlanner) AccountSuspended(c *contractor.Contractor) Draft {
	return Draft{
		UserID: c.UserID(),
		Type:   notification.TypeSystem,
		Title:  "Account Suspended",
		Body:   "Your contractor account has been suspended. Please contact support.",
		Data:   map[string]any{"approval_status": c.ApprovalStatus().String()},
	}
}

func statusData(j *job.Job) map[string]any {
	return map[string]any{"job_id": j.ID().String(), "status": j.Status().String()}
}
