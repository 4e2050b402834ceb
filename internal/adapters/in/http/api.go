package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ListMyJobsParams defines parameters for ListMyJobs.
type ListMyJobsParams struct {
	Status  *string `form:"status,omitempty" json:"status,omitempty"`
	Page    *int    `form:"page,omitempty" json:"page,omitempty"`
	PerPage *int    `form:"per_page,omitempty" json:"per_page,omitempty"`
}

// ListAdminJobsParams defines parameters for ListAdminJobs.
type ListAdminJobsParams = ListMyJobsParams

// ListAvailableJobsParams defines parameters for ListAvailableJobs.
type ListAvailableJobsParams struct {
	RadiusKm *float64 `form:"radius_km,omitempty" json:"radius_km,omitempty"`
}

// ListNotificationsParams defines parameters for ListNotifications.
type ListNotificationsParams struct {
	Unread  *bool `form:"unread,omitempty" json:"unread,omitempty"`
	Page    *int  `form:"page,omitempty" json:"page,omitempty"`
	PerPage *int  `form:"per_page,omitempty" json:"per_page,omitempty"`
}

// ListOperatorJobsParams defines parameters for ListOperatorJobs.
type ListOperatorJobsParams struct {
	Filter  *string `form:"filter,omitempty" json:"filter,omitempty"`
	Page    *int    `form:"page,omitempty" json:"page,omitempty"`
	PerPage *int    `form:"per_page,omitempty" json:"per_page,omitempty"`
}

// ServerInterface represents all server handlers described in openapi.yaml.
type ServerInterface interface {
	// (GET /api/health)
	GetHealth(ctx echo.Context) error
	// (POST /api/pricing/estimate)
	EstimatePrice(ctx echo.Context) error
	// (POST /api/webhooks/stripe)
	HandleStripeWebhook(ctx echo.Context) error

	// (POST /api/booking)
	CreateBooking(ctx echo.Context) error
	// (GET /api/jobs)
	ListMyJobs(ctx echo.Context, params ListMyJobsParams) error
	// (GET /api/jobs/{id})
	GetJob(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/jobs/{id}/cancel)
	CancelJob(ctx echo.Context, id openapi_types.UUID) error
	// (POST /api/jobs/{id}/photos)
	PresignJobPhoto(ctx echo.Context, id openapi_types.UUID) error

	// (POST /api/drivers/register)
	RegisterDriver(ctx echo.Context) error
	// (PUT /api/drivers/availability)
	SetAvailability(ctx echo.Context) error
	// (PUT /api/drivers/location)
	UpdateLocation(ctx echo.Context) error
	// (GET /api/drivers/jobs/available)
	ListAvailableJobs(ctx echo.Context, params ListAvailableJobsParams) error
	// (POST /api/drivers/jobs/{id}/accept)
	AcceptJob(ctx echo.Context, id openapi_types.UUID) error
	// (PUT /api/drivers/jobs/{id}/status)
	UpdateJobStatus(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/drivers/earnings)
	GetDriverEarnings(ctx echo.Context) error

	// (GET /api/notifications)
	ListNotifications(ctx echo.Context, params ListNotificationsParams) error
	// (PUT /api/notifications/{id}/read)
	MarkNotificationRead(ctx echo.Context, id openapi_types.UUID) error

	// (POST /api/payments/create-intent)
	CreatePaymentIntent(ctx echo.Context) error
	// (POST /api/payments/confirm)
	ConfirmPayment(ctx echo.Context) error
	// (POST /api/payments/payout/{job_id})
	TriggerPayout(ctx echo.Context, jobID openapi_types.UUID) error

	// (GET /api/admin/dashboard)
	GetAdminDashboard(ctx echo.Context) error
	// (PUT /api/admin/contractors/{id}/approve)
	ApproveContractor(ctx echo.Context, id openapi_types.UUID) error
	// (PUT /api/admin/contractors/{id}/suspend)
	SuspendContractor(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/admin/jobs)
	ListAdminJobs(ctx echo.Context, params ListAdminJobsParams) error
	// (PUT /api/admin/jobs/{id}/assign)
	AssignJob(ctx echo.Context, id openapi_types.UUID) error
	// (PUT /api/admin/jobs/{id}/route)
	RouteJob(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/admin/pricing/rules)
	ListPricingRules(ctx echo.Context) error
	// (PUT /api/admin/pricing/rules)
	UpsertPricingRules(ctx echo.Context) error
	// (GET /api/admin/pricing/surge)
	ListSurgeZones(ctx echo.Context) error
	// (POST /api/admin/pricing/surge)
	CreateSurgeZone(ctx echo.Context) error
	// (PUT /api/admin/pricing/surge/{id})
	UpdateSurgeZone(ctx echo.Context, id openapi_types.UUID) error

	// (GET /api/operator/dashboard)
	GetOperatorDashboard(ctx echo.Context) error
	// (GET /api/operator/fleet)
	GetFleet(ctx echo.Context) error
	// (POST /api/operator/invites)
	CreateInvite(ctx echo.Context) error
	// (GET /api/operator/invites)
	ListInvites(ctx echo.Context) error
	// (DELETE /api/operator/invites/{id})
	RevokeInvite(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/operator/jobs)
	ListOperatorJobs(ctx echo.Context, params ListOperatorJobsParams) error
	// (PUT /api/operator/jobs/{id}/delegate)
	DelegateJob(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/operator/earnings)
	GetOperatorEarnings(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindPathUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func bindQuery(ctx echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

func (w *ServerInterfaceWrapper) EstimatePrice(ctx echo.Context) error {
	return w.Handler.EstimatePrice(ctx)
}

func (w *ServerInterfaceWrapper) HandleStripeWebhook(ctx echo.Context) error {
	return w.Handler.HandleStripeWebhook(ctx)
}

func (w *ServerInterfaceWrapper) CreateBooking(ctx echo.Context) error {
	return w.Handler.CreateBooking(ctx)
}

func (w *ServerInterfaceWrapper) ListMyJobs(ctx echo.Context) error {
	var params ListMyJobsParams
	if err := bindQuery(ctx, "status", &params.Status); err != nil {
		return err
	}
	if err := bindQuery(ctx, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQuery(ctx, "per_page", &params.PerPage); err != nil {
		return err
	}
	return w.Handler.ListMyJobs(ctx, params)
}

func (w *ServerInterfaceWrapper) GetJob(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.GetJob(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelJob(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.CancelJob(ctx, id)
}

func (w *ServerInterfaceWrapper) PresignJobPhoto(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.PresignJobPhoto(ctx, id)
}

func (w *ServerInterfaceWrapper) RegisterDriver(ctx echo.Context) error {
	return w.Handler.RegisterDriver(ctx)
}

func (w *ServerInterfaceWrapper) SetAvailability(ctx echo.Context) error {
	return w.Handler.SetAvailability(ctx)
}

func (w *ServerInterfaceWrapper) UpdateLocation(ctx echo.Context) error {
	return w.Handler.UpdateLocation(ctx)
}

func (w *ServerInterfaceWrapper) ListAvailableJobs(ctx echo.Context) error {
	var params ListAvailableJobsParams
	if err := bindQuery(ctx, "radius_km", &params.RadiusKm); err != nil {
		return err
	}
	return w.Handler.ListAvailableJobs(ctx, params)
}

func (w *ServerInterfaceWrapper) AcceptJob(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.AcceptJob(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateJobStatus(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.UpdateJobStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) GetDriverEarnings(ctx echo.Context) error {
	return w.Handler.GetDriverEarnings(ctx)
}

func (w *ServerInterfaceWrapper) ListNotifications(ctx echo.Context) error {
	var params ListNotificationsParams
	if err := bindQuery(ctx, "unread", &params.Unread); err != nil {
		return err
	}
	if err := bindQuery(ctx, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQuery(ctx, "per_page", &params.PerPage); err != nil {
		return err
	}
	return w.Handler.ListNotifications(ctx, params)
}

func (w *ServerInterfaceWrapper) MarkNotificationRead(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.MarkNotificationRead(ctx, id)
}

func (w *ServerInterfaceWrapper) CreatePaymentIntent(ctx echo.Context) error {
	return w.Handler.CreatePaymentIntent(ctx)
}

func (w *ServerInterfaceWrapper) ConfirmPayment(ctx echo.Context) error {
	return w.Handler.ConfirmPayment(ctx)
}

func (w *ServerInterfaceWrapper) TriggerPayout(ctx echo.Context) error {
	jobID, err := bindPathUUID(ctx, "job_id")
	if err != nil {
		return err
	}
	return w.Handler.TriggerPayout(ctx, jobID)
}

func (w *ServerInterfaceWrapper) GetAdminDashboard(ctx echo.Context) error {
	return w.Handler.GetAdminDashboard(ctx)
}

func (w *ServerInterfaceWrapper) ApproveContractor(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.ApproveContractor(ctx, id)
}

func (w *ServerInterfaceWrapper) SuspendContractor(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.SuspendContractor(ctx, id)
}

func (w *ServerInterfaceWrapper) ListAdminJobs(ctx echo.Context) error {
	var params ListAdminJobsParams
	if err := bindQuery(ctx, "status", &params.Status); err != nil {
		return err
	}
	if err := bindQuery(ctx, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQuery(ctx, "per_page", &params.PerPage); err != nil {
		return err
	}
	return w.Handler.ListAdminJobs(ctx, params)
}

func (w *ServerInterfaceWrapper) AssignJob(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.AssignJob(ctx, id)
}

func (w *ServerInterfaceWrapper) RouteJob(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.RouteJob(ctx, id)
}

func (w *ServerInterfaceWrapper) ListPricingRules(ctx echo.Context) error {
	return w.Handler.ListPricingRules(ctx)
}

func (w *ServerInterfaceWrapper) UpsertPricingRules(ctx echo.Context) error {
	return w.Handler.UpsertPricingRules(ctx)
}

func (w *ServerInterfaceWrapper) ListSurgeZones(ctx echo.Context) error {
	return w.Handler.ListSurgeZones(ctx)
}

func (w *ServerInterfaceWrapper) CreateSurgeZone(ctx echo.Context) error {
	return w.Handler.CreateSurgeZone(ctx)
}

func (w *ServerInterfaceWrapper) UpdateSurgeZone(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.UpdateSurgeZone(ctx, id)
}

func (w *ServerInterfaceWrapper) GetOperatorDashboard(ctx echo.Context) error {
	return w.Handler.GetOperatorDashboard(ctx)
}

func (w *ServerInterfaceWrapper) GetFleet(ctx echo.Context) error {
	return w.Handler.GetFleet(ctx)
}

func (w *ServerInterfaceWrapper) CreateInvite(ctx echo.Context) error {
	return w.Handler.CreateInvite(ctx)
}

func (w *ServerInterfaceWrapper) ListInvites(ctx echo.Context) error {
	return w.Handler.ListInvites(ctx)
}

func (w *ServerInterfaceWrapper) RevokeInvite(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.RevokeInvite(ctx, id)
}

func (w *ServerInterfaceWrapper) ListOperatorJobs(ctx echo.Context) error {
	var params ListOperatorJobsParams
	if err := bindQuery(ctx, "filter", &params.Filter); err != nil {
		return err
	}
	if err := bindQuery(ctx, "page", &params.Page); err != nil {
		return err
	}
	if err := bindQuery(ctx, "per_page", &params.PerPage); err != nil {
		return err
	}
	return w.Handler.ListOperatorJobs(ctx, params)
}

func (w *ServerInterfaceWrapper) DelegateJob(ctx echo.Context) error {
	id, err := bindPathUUID(ctx, "id")
	if err != nil {
		return err
	}
	return w.Handler.DelegateJob(ctx, id)
}

func (w *ServerInterfaceWrapper) GetOperatorEarnings(ctx echo.Context) error {
	return w.Handler.GetOperatorEarnings(ctx)
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for routing.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every route to router. Routes other than health,
// estimate and the payment webhook run behind auth.
func RegisterHandlers(router EchoRouter, si ServerInterface, auth echo.MiddlewareFunc) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET("/api/health", w.GetHealth)
	router.POST("/api/pricing/estimate", w.EstimatePrice)
	router.POST("/api/webhooks/stripe", w.HandleStripeWebhook)

	router.POST("/api/booking", w.CreateBooking, auth)
	router.GET("/api/jobs", w.ListMyJobs, auth)
	router.GET("/api/jobs/:id", w.GetJob, auth)
	router.POST("/api/jobs/:id/cancel", w.CancelJob, auth)
	router.POST("/api/jobs/:id/photos", w.PresignJobPhoto, auth)

	router.POST("/api/drivers/register", w.RegisterDriver, auth)
	router.PUT("/api/drivers/availability", w.SetAvailability, auth)
	router.PUT("/api/drivers/location", w.UpdateLocation, auth)
	router.GET("/api/drivers/jobs/available", w.ListAvailableJobs, auth)
	router.POST("/api/drivers/jobs/:id/accept", w.AcceptJob, auth)
	router.PUT("/api/drivers/jobs/:id/status", w.UpdateJobStatus, auth)
	router.GET("/api/drivers/earnings", w.GetDriverEarnings, auth)

	router.GET("/api/notifications", w.ListNotifications, auth)
	router.PUT("/api/notifications/:id/read", w.MarkNotificationRead, auth)

	router.POST("/api/payments/create-intent", w.CreatePaymentIntent, auth)
	router.POST("/api/payments/confirm", w.ConfirmPayment, auth)
	router.POST("/api/payments/payout/:job_id", w.TriggerPayout, auth)

	router.GET("/api/admin/dashboard", w.GetAdminDashboard, auth)
	router.PUT("/api/admin/contractors/:id/approve", w.ApproveContractor, auth)
	router.PUT("/api/admin/contractors/:id/suspend", w.SuspendContractor, auth)
	router.GET("/api/admin/jobs", w.ListAdminJobs, auth)
	router.PUT("/api/admin/jobs/:id/assign", w.AssignJob, auth)
	router.PUT("/api/admin/jobs/:id/route", w.RouteJob, auth)
	router.GET("/api/admin/pricing/rules", w.ListPricingRules, auth)
	router.PUT("/api/admin/pricing/rules", w.UpsertPricingRules, auth)
	router.GET("/api/admin/pricing/surge", w.ListSurgeZones, auth)
	router.POST("/api/admin/pricing/surge", w.CreateSurgeZone, auth)
	router.PUT("/api/admin/pricing/surge/:id", w.UpdateSurgeZone, auth)

	router.GET("/api/operator/dashboard", w.GetOperatorDashboard, auth)
	router.GET("/api/operator/fleet", w.GetFleet, auth)
	router.POST("/api/operator/invites", w.CreateInvite, auth)
	router.GET("/api/operator/invites", w.ListInvites, auth)
	router.DELETE("/api/operator/invites/:id", w.RevokeInvite, auth)
	router.GET("/api/operator/jobs", w.ListOperatorJobs, auth)
	router.PUT("/api/operator/jobs/:id/delegate", w.DelegateJob, auth)
	router.GET("/api/operator/earnings", w.GetOperatorEarnings, auth)
}
