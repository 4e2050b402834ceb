package http

import (
	"context"
	"io"
	"net/http"

	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const maxWebhookBody = 64 << 10

var _ ServerInterface = (*Server)(nil)

// Handlers groups every use case the API exposes.
type Handlers struct {
	// Command handlers
	CreateJob                commands.CreateJobCommandHandler
	CancelJob                commands.CancelJobCommandHandler
	AcceptJob                commands.AcceptJobCommandHandler
	TransitionJob            commands.TransitionJobCommandHandler
	AssignJob                commands.AssignJobCommandHandler
	RouteJobToOperator       commands.RouteJobToOperatorCommandHandler
	DelegateJob              commands.DelegateJobCommandHandler
	PresignPhotoUpload       commands.PresignPhotoUploadCommandHandler
	RegisterContractor       commands.RegisterContractorCommandHandler
	ReviewContractor         commands.ReviewContractorCommandHandler
	SetAvailability          commands.SetAvailabilityCommandHandler
	UpdateContractorLocation commands.UpdateContractorLocationCommandHandler
	CreatePaymentIntent      commands.CreatePaymentIntentCommandHandler
	ConfirmPayment           commands.ConfirmPaymentCommandHandler
	TriggerPayout            commands.TriggerPayoutCommandHandler
	HandleProviderEvent      commands.HandleProviderEventCommandHandler
	MarkNotificationRead     commands.MarkNotificationReadCommandHandler
	UpsertPricingRules       commands.UpsertPricingRulesCommandHandler
	UpsertSurgeZone          commands.UpsertSurgeZoneCommandHandler
	CreateInvite             commands.CreateInviteCommandHandler
	RevokeInvite             commands.RevokeInviteCommandHandler

	// Query handlers
	EstimatePrice         queries.EstimatePriceQueryHandler
	GetJob                queries.GetJobQueryHandler
	ListCustomerJobs      queries.ListCustomerJobsQueryHandler
	ListJobs              queries.ListJobsQueryHandler
	ListAvailableJobs     queries.ListAvailableJobsQueryHandler
	GetContractorEarnings queries.GetContractorEarningsQueryHandler
	ListNotifications     queries.ListNotificationsQueryHandler
	GetAdminDashboard     queries.GetAdminDashboardQueryHandler
	ListPricingRules      queries.ListPricingRulesQueryHandler
	ListSurgeZones        queries.ListSurgeZonesQueryHandler
	GetOperatorDashboard  queries.GetOperatorDashboardQueryHandler
	GetFleet              queries.GetFleetQueryHandler
	ListInvites           queries.ListInvitesQueryHandler
	ListOperatorJobs      queries.ListOperatorJobsQueryHandler
	GetOperatorEarnings   queries.GetOperatorEarningsQueryHandler

	// Health reports whether the backing stores are reachable. Optional.
	Health func(ctx context.Context) error
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

func ok(c echo.Context, status int, body Envelope) error {
	if body == nil {
		body = Envelope{}
	}
	body["success"] = true
	return c.JSON(status, body)
}

func paged[T, V any](c echo.Context, key string, items []V, page queries.Page[T], extra Envelope) error {
	body := Envelope{
		key:     items,
		"total": page.Total,
		"page":  page.Page,
		"pages": page.Pages,
	}
	for k, v := range extra {
		body[k] = v
	}
	return ok(c, http.StatusOK, body)
}

// bind decodes and validates the request body.
func bind(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return c.Validate(dest)
}

func pagination(page, perPage *int) queries.Pagination {
	p, pp := 1, queries.DefaultPerPage
	if page != nil {
		p = *page
	}
	if perPage != nil {
		pp = *perPage
	}
	return queries.NewPagination(p, pp)
}

func optionalStatus(s *string) (*job.Status, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	status, err := job.ParseStatus(*s)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetHealth handles GET /api/health.
func (s *Server) GetHealth(ctx echo.Context) error {
	if s.h.Health != nil {
		if err := s.h.Health(ctx.Request().Context()); err != nil {
			return ctx.JSON(http.StatusServiceUnavailable, Envelope{"status": "unhealthy", "error": err.Error()})
		}
	}
	return ctx.JSON(http.StatusOK, Envelope{"status": "healthy", "service": "junkos"})
}

// EstimatePrice handles POST /api/pricing/estimate.
func (s *Server) EstimatePrice(ctx echo.Context) error {
	var req EstimateRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	location, err := optionalGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return err
	}

	query, err := queries.NewEstimatePriceQuery(req.Items, location)
	if err != nil {
		return err
	}
	estimate, err := s.h.EstimatePrice.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"estimate": toEstimate(estimate)})
}

// HandleStripeWebhook handles POST /api/webhooks/stripe. The body is read
// raw because the signature covers the exact bytes.
func (s *Server) HandleStripeWebhook(ctx echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBody))
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	cmd, err := commands.NewHandleProviderEventCommand(payload, ctx.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		return err
	}
	res, err := s.h.HandleProviderEvent.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{
		"received":  true,
		"event_id":  res.EventID,
		"duplicate": res.Duplicate,
		"applied":   res.Applied,
	})
}

// CreateBooking handles POST /api/booking.
func (s *Server) CreateBooking(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req BookingRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}
	location, err := optionalGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateJobCommand(actor.UserID, req.Address, location, req.Items,
		req.Photos, req.ScheduledAt, req.Notes)
	if err != nil {
		return err
	}
	res, err := s.h.CreateJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	body := Envelope{
		"booking_id": res.Job.ID().String(),
		"job":        toJob(res.Job),
		"estimate":   toEstimate(res.Estimate),
	}
	if res.Payment != nil {
		body["payment"] = toPayment(res.Payment)
	}
	return ok(ctx, http.StatusCreated, body)
}

// ListMyJobs handles GET /api/jobs.
func (s *Server) ListMyJobs(ctx echo.Context, params ListMyJobsParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	status, err := optionalStatus(params.Status)
	if err != nil {
		return err
	}

	query, err := queries.NewListCustomerJobsQuery(actor, status, pagination(params.Page, params.PerPage))
	if err != nil {
		return err
	}
	page, err := s.h.ListCustomerJobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return paged(ctx, "jobs", toJobViews(page.Items), page, nil)
}

// GetJob handles GET /api/jobs/{id}.
func (s *Server) GetJob(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(id)
	if err != nil {
		return err
	}

	query, err := queries.NewGetJobQuery(actor, jobID)
	if err != nil {
		return err
	}
	res, err := s.h.GetJob.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"job": toJobDetail(res)})
}

// CancelJob handles POST /api/jobs/{id}/cancel.
func (s *Server) CancelJob(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(id)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelJobCommand(actor, jobID)
	if err != nil {
		return err
	}
	j, err := s.h.CancelJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"job": toJob(j)})
}

// PresignJobPhoto handles POST /api/jobs/{id}/photos.
func (s *Server) PresignJobPhoto(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(id)
	if err != nil {
		return err
	}
	var req PhotoUploadRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewPresignPhotoUploadCommand(actor, jobID, commands.PhotoKind(req.Kind), req.ContentType)
	if err != nil {
		return err
	}
	upload, err := s.h.PresignPhotoUpload.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{
		"upload_url": upload.UploadURL,
		"public_url": upload.PublicURL,
		"expires_at": upload.ExpiresAt,
	})
}

// RegisterDriver handles POST /api/drivers/register.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req RegisterDriverRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterContractorCommand(actor, req.TruckType, req.InviteCode)
	if err != nil {
		return err
	}
	c, err := s.h.RegisterContractor.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusCreated, Envelope{"contractor": toContractor(c)})
}

// SetAvailability handles PUT /api/drivers/availability.
func (s *Server) SetAvailability(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req AvailabilityRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSetAvailabilityCommand(actor, *req.IsOnline)
	if err != nil {
		return err
	}
	c, err := s.h.SetAvailability.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"contractor": toContractor(c)})
}

// UpdateLocation handles PUT /api/drivers/location.
func (s *Server) UpdateLocation(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req LocationRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}
	location, err := kernel.NewGeoPoint(*req.Lat, *req.Lng)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateContractorLocationCommand(actor, location)
	if err != nil {
		return err
	}
	res, err := s.h.UpdateContractorLocation.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"throttled": res.Throttled})
}

// ListAvailableJobs handles GET /api/drivers/jobs/available.
func (s *Server) ListAvailableJobs(ctx echo.Context, params ListAvailableJobsParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var radius float64
	if params.RadiusKm != nil {
		radius = *params.RadiusKm
	}

	query, err := queries.NewListAvailableJobsQuery(actor, radius)
	if err != nil {
		return err
	}
	available, err := s.h.ListAvailableJobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]AvailableJob, 0, len(available))
	for _, a := range available {
		out = append(out, AvailableJob{Job: toJobView(a.JobView), DistanceKm: a.DistanceKm})
	}
	return ok(ctx, http.StatusOK, Envelope{"jobs": out})
}

// AcceptJob handles POST /api/drivers/jobs/{id}/accept.
func (s *Server) AcceptJob(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(id)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAcceptJobCommand(actor, jobID)
	if err != nil {
		return err
	}
	j, err := s.h.AcceptJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"job": toJob(j)})
}

// UpdateJobStatus handles PUT /api/drivers/jobs/{id}/status.
func (s *Server) UpdateJobStatus(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(id)
	if err != nil {
		return err
	}
	var req StatusRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}
	to, err := job.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionJobCommand(actor, jobID, to, req.Photos)
	if err != nil {
		return err
	}
	j, err := s.h.TransitionJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"job": toJob(j)})
}

// GetDriverEarnings handles GET /api/drivers/earnings.
func (s *Server) GetDriverEarnings(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetContractorEarningsQuery(actor)
	if err != nil {
		return err
	}
	e, err := s.h.GetContractorEarnings.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"earnings": ContractorEarnings{
		TotalEarnings: e.TotalEarnings.Float64(),
		TotalTips:     e.TotalTips.Float64(),
		Last30d:       e.Last30d.Float64(),
		Last7d:        e.Last7d.Float64(),
		PendingPayout: e.PendingPayout.Float64(),
		TotalJobs:     e.TotalJobs,
	}})
}

// ListNotifications handles GET /api/notifications.
func (s *Server) ListNotifications(ctx echo.Context, params ListNotificationsParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	unreadOnly := params.Unread != nil && *params.Unread

	query, err := queries.NewListNotificationsQuery(actor, unreadOnly, pagination(params.Page, params.PerPage))
	if err != nil {
		return err
	}
	list, err := s.h.ListNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]Notification, 0, len(list.Items))
	for _, n := range list.Items {
		out = append(out, toNotificationView(n))
	}
	return paged(ctx, "notifications", out, list.Page, Envelope{"unread_count": list.UnreadCount})
}

// MarkNotificationRead handles PUT /api/notifications/{id}/read.
func (s *Server) MarkNotificationRead(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	notificationID, err := uuidParam(id)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkNotificationReadCommand(actor, notificationID)
	if err != nil {
		return err
	}
	if err = s.h.MarkNotificationRead.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, nil)
}

// CreatePaymentIntent handles POST /api/payments/create-intent.
func (s *Server) CreatePaymentIntent(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req CreateIntentRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}
	jobID, err := uuidParam(req.JobID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreatePaymentIntentCommand(actor, jobID, kernel.MoneyFromFloat(req.Tip))
	if err != nil {
		return err
	}
	res, err := s.h.CreatePaymentIntent.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{
		"client_secret":     res.ClientSecret,
		"payment_intent_id": res.IntentID,
		"amount":            res.Payment.Amount().Float64(),
		"payment":           toPayment(res.Payment),
	})
}

// ConfirmPayment handles POST /api/payments/confirm.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req ConfirmPaymentRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewConfirmPaymentCommand(actor, req.PaymentIntentID)
	if err != nil {
		return err
	}
	p, err := s.h.ConfirmPayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"payment": toPayment(p)})
}

// TriggerPayout handles POST /api/payments/payout/{job_id}.
func (s *Server) TriggerPayout(ctx echo.Context, jobID openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	id, err := uuidParam(jobID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTriggerPayoutCommand(actor, id)
	if err != nil {
		return err
	}
	p, err := s.h.TriggerPayout.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"payment": toPayment(p)})
}
