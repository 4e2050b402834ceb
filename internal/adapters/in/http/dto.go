package http

import (
	"time"

	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/invite"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Requests. Money fields are dollars.

type EstimateRequest struct {
	Items []job.LineItem `json:"items" validate:"required,min=1"`
	Lat   *float64       `json:"lat" validate:"omitempty,latitude"`
	Lng   *float64       `json:"lng" validate:"omitempty,longitude"`
}

type BookingRequest struct {
	Address     string         `json:"address" validate:"required,max=500"`
	Lat         *float64       `json:"lat" validate:"omitempty,latitude"`
	Lng         *float64       `json:"lng" validate:"omitempty,longitude"`
	Items       []job.LineItem `json:"items" validate:"required,min=1"`
	Photos      []string       `json:"photos" validate:"omitempty,dive,url"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	Notes       string         `json:"notes" validate:"max=2000"`
}

type PhotoUploadRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=booking before after"`
	ContentType string `json:"content_type" validate:"required"`
}

type RegisterDriverRequest struct {
	TruckType  string `json:"truck_type" validate:"max=50"`
	InviteCode string `json:"invite_code" validate:"max=32"`
}

type AvailabilityRequest struct {
	IsOnline *bool `json:"is_online" validate:"required"`
}

type LocationRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

type StatusRequest struct {
	Status string   `json:"status" validate:"required"`
	Photos []string `json:"photos" validate:"omitempty,dive,url"`
}

type CreateIntentRequest struct {
	JobID openapi_types.UUID `json:"job_id" validate:"required"`
	Tip   float64            `json:"tip" validate:"gte=0"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type AssignRequest struct {
	ContractorID openapi_types.UUID `json:"contractor_id" validate:"required"`
}

type RouteRequest struct {
	OperatorID openapi_types.UUID `json:"operator_id" validate:"required"`
}

type PricingRuleRequest struct {
	Category    string  `json:"category" validate:"required,max=50"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	IsActive    *bool   `json:"is_active"`
	Description string  `json:"description"`
}

type PricingRulesRequest struct {
	Rules []PricingRuleRequest `json:"rules" validate:"required,min=1,dive"`
}

type SurgeZoneRequest struct {
	Name       string           `json:"name" validate:"required,max=100"`
	Boundary   []queries.Vertex `json:"boundary"`
	Multiplier float64          `json:"surge_multiplier" validate:"gte=1"`
	IsActive   *bool            `json:"is_active"`
	StartTime  string           `json:"start_time"`
	EndTime    string           `json:"end_time"`
	Weekdays   []int            `json:"days_of_week" validate:"omitempty,dive,min=0,max=6"`
}

type InviteRequest struct {
	Email     string     `json:"email" validate:"omitempty,email"`
	MaxUses   int        `json:"max_uses" validate:"gte=0"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Responses.

type Envelope map[string]any

type PriceBreakdown struct {
	BasePrice        float64 `json:"base_price"`
	ItemTotal        float64 `json:"item_total"`
	VolumeAdjustment float64 `json:"volume_adjustment"`
	SurgeMultiplier  float64 `json:"surge_multiplier"`
	ServiceFee       float64 `json:"service_fee"`
	TotalPrice       float64 `json:"total_price"`
}

type PaymentSummary struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Tip    float64 `json:"tip_amount"`
	Status string  `json:"status"`
}

type Job struct {
	ID           string         `json:"id"`
	CustomerID   string         `json:"customer_id"`
	DriverID     *string        `json:"driver_id"`
	OperatorID   *string        `json:"operator_id"`
	Status       string         `json:"status"`
	Address      string         `json:"address"`
	Lat          *float64       `json:"lat"`
	Lng          *float64       `json:"lng"`
	Items        []job.LineItem `json:"items"`
	Notes        string         `json:"notes"`
	Photos       []string       `json:"photos"`
	BeforePhotos []string       `json:"before_photos"`
	AfterPhotos  []string       `json:"after_photos"`
	ScheduledAt  *time.Time     `json:"scheduled_at"`
	DelegatedAt  *time.Time     `json:"delegated_at"`
	StartedAt    *time.Time     `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at"`
	PriceBreakdown
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Payment   *PaymentSummary `json:"payment,omitempty"`
}

type DriverSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Rating    float64  `json:"rating"`
	TruckType string   `json:"truck_type"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

type JobDetail struct {
	Job
	Driver *DriverSummary `json:"driver"`
}

type AvailableJob struct {
	Job
	DistanceKm *float64 `json:"distance_km"`
}

type OperatorJob struct {
	Job
	DriverName    string `json:"driver_name"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type PricedLine struct {
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

type Estimate struct {
	PriceBreakdown
	EstimatedDurationMinutes int          `json:"estimated_duration_minutes"`
	TotalQuantity            int          `json:"total_quantity"`
	Lines                    []PricedLine `json:"lines"`
}

type Payment struct {
	ID                 string  `json:"id"`
	JobID              string  `json:"job_id"`
	Amount             float64 `json:"amount"`
	Tip                float64 `json:"tip_amount"`
	Commission         float64 `json:"commission"`
	DriverPayout       float64 `json:"driver_payout_amount"`
	OperatorPayout     float64 `json:"operator_payout_amount"`
	ServiceFee         float64 `json:"service_fee"`
	Status             string  `json:"status"`
	PayoutStatus       string  `json:"payout_status"`
	IntentID           string  `json:"payment_intent_id,omitempty"`
	TransferID         string  `json:"transfer_id,omitempty"`
	OperatorTransferID string  `json:"operator_transfer_id,omitempty"`
	RefundedAmount     float64 `json:"refunded_amount"`
}

type Contractor struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	ApprovalStatus string   `json:"approval_status"`
	IsOnline       bool     `json:"is_online"`
	Lat            *float64 `json:"current_lat"`
	Lng            *float64 `json:"current_lng"`
	Rating         float64  `json:"rating"`
	TotalJobs      int      `json:"total_jobs"`
	TruckType      string   `json:"truck_type"`
	IsOperator     bool     `json:"is_operator"`
	OperatorID     *string  `json:"operator_id"`
}

type FleetMember struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	TruckType      string  `json:"truck_type"`
	IsOnline       bool    `json:"is_online"`
	Rating         float64 `json:"rating"`
	TotalJobs      int     `json:"total_jobs"`
	ApprovalStatus string  `json:"approval_status"`
}

type Invite struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Email     string     `json:"email"`
	MaxUses   int        `json:"max_uses"`
	UseCount  int        `json:"use_count"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

type PricingRule struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	UnitPrice   float64   `json:"unit_price"`
	IsActive    bool      `json:"is_active"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SurgeZone struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Boundary   []queries.Vertex `json:"boundary"`
	Multiplier float64          `json:"surge_multiplier"`
	IsActive   bool             `json:"is_active"`
	StartTime  string           `json:"start_time"`
	EndTime    string           `json:"end_time"`
	Weekdays   []int            `json:"days_of_week"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type AdminDashboard struct {
	TotalJobs           int     `json:"total_jobs"`
	CompletedJobs       int     `json:"completed_jobs"`
	PendingJobs         int     `json:"pending_jobs"`
	ActiveJobs          int     `json:"active_jobs"`
	TotalUsers          int     `json:"total_users"`
	TotalContractors    int     `json:"total_contractors"`
	ApprovedContractors int     `json:"approved_contractors"`
	OnlineContractors   int     `json:"online_contractors"`
	Revenue30d          float64 `json:"revenue_30d"`
	Commission30d       float64 `json:"commission_30d"`
}

type OperatorDashboard struct {
	FleetSize         int     `json:"fleet_size"`
	OnlineCount       int     `json:"online_count"`
	PendingDelegation int     `json:"pending_delegation"`
	Earnings30d       float64 `json:"earnings_30d"`
}

type ContractorCommission struct {
	ContractorID string  `json:"contractor_id"`
	Name         string  `json:"name"`
	Commission   float64 `json:"commission"`
	Jobs         int     `json:"jobs"`
}

type OperatorEarnings struct {
	Total         float64                `json:"total_commission"`
	Last30d       float64                `json:"commission_30d"`
	Last7d        float64                `json:"commission_7d"`
	PerContractor []ContractorCommission `json:"per_contractor"`
}

type ContractorEarnings struct {
	TotalEarnings float64 `json:"total_earnings"`
	TotalTips     float64 `json:"total_tips"`
	Last30d       float64 `json:"earnings_30d"`
	Last7d        float64 `json:"earnings_7d"`
	PendingPayout float64 `json:"pending_payout"`
	TotalJobs     int     `json:"total_jobs"`
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func latLng(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lng := p.Lat(), p.Lng()
	return &lat, &lng
}

func optionalGeoPoint(lat, lng *float64) (*kernel.GeoPoint, error) {
	return kernel.NewOptionalGeoPoint(lat, lng)
}

func toPriceBreakdown(p job.PriceBreakdown) PriceBreakdown {
	return PriceBreakdown{
		BasePrice:        p.BasePrice().Float64(),
		ItemTotal:        p.ItemTotal().Float64(),
		VolumeAdjustment: p.VolumeAdjustment().Float64(),
		SurgeMultiplier:  p.SurgeMultiplier(),
		ServiceFee:       p.ServiceFee().Float64(),
		TotalPrice:       p.Total().Float64(),
	}
}

func toJob(j *job.Job) Job {
	lat, lng := latLng(j.Location())
	return Job{
		ID:             j.ID().String(),
		CustomerID:     j.CustomerID().String(),
		DriverID:       idString(j.DriverID()),
		OperatorID:     idString(j.OperatorID()),
		Status:         j.Status().String(),
		Address:        j.Address(),
		Lat:            lat,
		Lng:            lng,
		Items:          j.Items(),
		Notes:          j.Notes(),
		Photos:         j.Photos(),
		BeforePhotos:   j.BeforePhotos(),
		AfterPhotos:    j.AfterPhotos(),
		ScheduledAt:    j.ScheduledAt(),
		DelegatedAt:    j.DelegatedAt(),
		StartedAt:      j.StartedAt(),
		CompletedAt:    j.CompletedAt(),
		PriceBreakdown: toPriceBreakdown(j.Price()),
		CreatedAt:      j.CreatedAt(),
		UpdatedAt:      j.UpdatedAt(),
	}
}

func toJobView(v queries.JobView) Job {
	out := Job{
		ID:           v.ID.String(),
		CustomerID:   v.CustomerID.String(),
		DriverID:     idString(v.DriverID),
		OperatorID:   idString(v.OperatorID),
		Status:       v.Status.String(),
		Address:      v.Address,
		Lat:          v.Lat,
		Lng:          v.Lng,
		Items:        v.Items,
		Notes:        v.Notes,
		Photos:       v.Photos,
		BeforePhotos: v.BeforePhotos,
		AfterPhotos:  v.AfterPhotos,
		ScheduledAt:  v.ScheduledAt,
		DelegatedAt:  v.DelegatedAt,
		StartedAt:    v.StartedAt,
		CompletedAt:  v.CompletedAt,
		PriceBreakdown: PriceBreakdown{
			BasePrice:        v.BasePrice.Float64(),
			ItemTotal:        v.ItemTotal.Float64(),
			VolumeAdjustment: v.VolumeAdjustment.Float64(),
			SurgeMultiplier:  v.SurgeMultiplier,
			ServiceFee:       v.ServiceFee.Float64(),
			TotalPrice:       v.TotalPrice.Float64(),
		},
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if p := v.Payment; p != nil {
		out.Payment = &PaymentSummary{
			ID:     p.ID.String(),
			Amount: p.Amount.Float64(),
			Tip:    p.Tip.Float64(),
			Status: p.Status.String(),
		}
	}
	return out
}

func toJobViews(views []queries.JobView) []Job {
	out := make([]Job, 0, len(views))
	for _, v := range views {
		out = append(out, toJobView(v))
	}
	return out
}

func toJobDetail(r queries.GetJobQueryResponse) JobDetail {
	out := JobDetail{Job: toJobView(r.JobView)}
	if d := r.Driver; d != nil {
		out.Driver = &DriverSummary{
			ID:        d.ID.String(),
			Name:      d.Name,
			Phone:     d.Phone,
			Rating:    d.Rating,
			TruckType: d.TruckType,
			Lat:       d.Lat,
			Lng:       d.Lng,
		}
	}
	return out
}

func toEstimate(e services.Estimate) Estimate {
	lines := make([]PricedLine, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, PricedLine{
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.Float64(),
			LineTotal: l.LineTotal.Float64(),
		})
	}
	return Estimate{
		PriceBreakdown:           toPriceBreakdown(e.Price),
		EstimatedDurationMinutes: e.EstimatedDurationMinutes,
		TotalQuantity:            e.TotalQuantity,
		Lines:                    lines,
	}
}

func toPayment(p *payment.Payment) Payment {
	split := p.Split()
	return Payment{
		ID:                 p.ID().String(),
		JobID:              p.JobID().String(),
		Amount:             p.Amount().Float64(),
		Tip:                p.Tip().Float64(),
		Commission:         split.Commission().Float64(),
		DriverPayout:       split.DriverPayout().Float64(),
		OperatorPayout:     split.OperatorPayout().Float64(),
		ServiceFee:         split.ServiceFee().Float64(),
		Status:             p.Status().String(),
		PayoutStatus:       p.PayoutStatus().String(),
		IntentID:           p.IntentID(),
		TransferID:         p.TransferID(),
		OperatorTransferID: p.OperatorTransferID(),
		RefundedAmount:     p.RefundedAmount().Float64(),
	}
}

func toContractor(c *contractor.Contractor) Contractor {
	lat, lng := latLng(c.Location())
	return Contractor{
		ID:             c.ID().String(),
		UserID:         c.UserID().String(),
		ApprovalStatus: c.ApprovalStatus().String(),
		IsOnline:       c.IsOnline(),
		Lat:            lat,
		Lng:            lng,
		Rating:         c.Rating(),
		TotalJobs:      c.TotalJobs(),
		TruckType:      c.TruckType(),
		IsOperator:     c.IsOperator(),
		OperatorID:     idString(c.OperatorID()),
	}
}

func toInvite(i *invite.Invite) Invite {
	return Invite{
		ID:        i.ID().String(),
		Code:      i.Code(),
		Email:     i.Email(),
		MaxUses:   i.MaxUses(),
		UseCount:  i.UseCount(),
		ExpiresAt: i.ExpiresAt(),
		IsActive:  i.IsActive(),
		CreatedAt: i.CreatedAt(),
	}
}

func toInviteView(v queries.InviteView) Invite {
	return Invite{
		ID:        v.ID.String(),
		Code:      v.Code,
		Email:     v.Email,
		MaxUses:   v.MaxUses,
		UseCount:  v.UseCount,
		ExpiresAt: v.ExpiresAt,
		IsActive:  v.IsActive,
		CreatedAt: v.CreatedAt,
	}
}

func toPricingRule(r *pricing.Rule) PricingRule {
	return PricingRule{
		ID:          r.ID().String(),
		Category:    r.Category(),
		UnitPrice:   r.UnitPrice().Float64(),
		IsActive:    r.IsActive(),
		Description: r.Description(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func toPricingRuleView(v queries.PricingRuleView) PricingRule {
	return PricingRule{
		ID:          v.ID.String(),
		Category:    v.Category,
		UnitPrice:   v.UnitPrice.Float64(),
		IsActive:    v.IsActive,
		Description: v.Description,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toSurgeZone(z *pricing.SurgeZone) SurgeZone {
	boundary := make([]queries.Vertex, 0, len(z.Boundary()))
	for _, p := range z.Boundary() {
		boundary = append(boundary, queries.Vertex{Lat: p.Lat(), Lng: p.Lng()})
	}
	start, end := z.Window().Bounds()
	return SurgeZone{
		ID:         z.ID().String(),
		Name:       z.Name(),
		Boundary:   boundary,
		Multiplier: z.Multiplier(),
		IsActive:   z.IsActive(),
		StartTime:  start,
		EndTime:    end,
		Weekdays:   z.Weekdays(),
		UpdatedAt:  z.UpdatedAt(),
	}
}

func toSurgeZoneView(v queries.SurgeZoneView) SurgeZone {
	return SurgeZone{
		ID:         v.ID.String(),
		Name:       v.Name,
		Boundary:   v.Boundary,
		Multiplier: v.Multiplier,
		IsActive:   v.IsActive,
		StartTime:  v.StartTime,
		EndTime:    v.EndTime,
		Weekdays:   v.Weekdays,
		UpdatedAt:  v.UpdatedAt,
	}
}

func toNotificationView(v queries.NotificationView) Notification {
	return Notification{
		ID:        v.ID.String(),
		Type:      string(v.Type),
		Title:     v.Title,
		Body:      v.Body,
		Data:      v.Data,
		IsRead:    v.IsRead,
		CreatedAt: v.CreatedAt,
	}
}

func toSurgeZoneParams(req SurgeZoneRequest) (pricing.SurgeZoneParams, error) {
	boundary := make([]kernel.GeoPoint, 0, len(req.Boundary))
	for _, v := range req.Boundary {
		p, err := kernel.NewGeoPoint(v.Lat, v.Lng)
		if err != nil {
			return pricing.SurgeZoneParams{}, err
		}
		boundary = append(boundary, p)
	}
	return pricing.SurgeZoneParams{
		Name:       req.Name,
		Boundary:   boundary,
		Multiplier: req.Multiplier,
		IsActive:   boolOr(req.IsActive, true),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Weekdays:   req.Weekdays,
	}, nil
}

func toRuleInputs(req PricingRulesRequest) []commands.RuleInput {
	out := make([]commands.RuleInput, 0, len(req.Rules))
	for _, r := range req.Rules {
		out = append(out, commands.RuleInput{
			Category:    r.Category,
			UnitPrice:   kernel.MoneyFromFloat(r.UnitPrice),
			IsActive:    boolOr(r.IsActive, true),
			Description: r.Description,
		})
	}
	return out
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

func uuidParam(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromGoogle(id)
}
