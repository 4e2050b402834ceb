package http

import (
	"net/http"

	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GetAdminDashboard handles GET /api/admin/dashboard.
func (s *Server) GetAdminDashboard(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetAdminDashboardQuery(actor)
	if err != nil {
		return err
	}
	d, err := s.h.GetAdminDashboard.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"dashboard": AdminDashboard{
		TotalJobs:           d.TotalJobs,
		CompletedJobs:       d.CompletedJobs,
		PendingJobs:         d.PendingJobs,
		ActiveJobs:          d.ActiveJobs,
		TotalUsers:          d.TotalUsers,
		TotalContractors:    d.TotalContractors,
		ApprovedContractors: d.ApprovedContractors,
		OnlineContractors:   d.OnlineContractors,
		Revenue30d:          d.Revenue30d.Float64(),
		Commission30d:       d.Commission30d.Float64(),
	}})
}

// ApproveContractor handles PUT /api/admin/contractors/{id}/approve.
func (s *Server) ApproveContractor(ctx echo.Context, id openapi_types.UUID) error {
	return s.reviewContractor(ctx, id, commands.NewApproveContractorCommand)
}

// SuspendContractor handles PUT /api/admin/contractors/{id}/suspend.
func (s *Server) SuspendContractor(ctx echo.Context, id openapi_types.UUID) error {
	return s.reviewContractor(ctx, id, commands.NewSuspendContractorCommand)
}

type reviewCommandFunc func(actor services.Actor, id kernel.UUID) (commands.ReviewContractorCommand, error)

func (s *Server) reviewContractor(ctx echo.Context, id openapi_types.UUID, newCommand reviewCommandFunc) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	contractorID, err := uuidParam(id)
	if err != nil {
		return err
	}

	cmd, err := newCommand(actor, contractorID)
	if err != nil {
		return err
	}
	c, err := s.h.ReviewContractor.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"contractor": toContractor(c)})
}

// ListAdminJobs handles GET /api/admin/jobs.
func (s *Server) ListAdminJobs(ctx echo.Context, params ListAdminJobsParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	status, err := optionalStatus(params.Status)
	if err != nil {
		return err
	}

	query, err := queries.NewListJobsQuery(actor, status, pagination(params.Page, params.PerPage))
	if err != nil {
		return err
	}
	page, err := s.h.ListJobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return paged(ctx, "jobs", toJobViews(page.Items), page, nil)
}

// AssignJob handles PUT /api/admin/jobs/{id}/assign.
func (s *Server) AssignJob(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(id)
	if err != nil {
		return err
	}
	var req AssignRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}
	contractorID, err := uuidParam(req.ContractorID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignJobCommand(actor, jobID, contractorID)
	if err != nil {
		return err
	}
	j, err := s.h.AssignJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"job": toJob(j)})
}

// RouteJob handles PUT /api/admin/jobs/{id}/route.
func (s *Server) RouteJob(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(id)
	if err != nil {
		return err
	}
	var req RouteRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}
	operatorID, err := uuidParam(req.OperatorID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRouteJobToOperatorCommand(actor, jobID, operatorID)
	if err != nil {
		return err
	}
	j, err := s.h.RouteJobToOperator.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"job": toJob(j)})
}

// ListPricingRules handles GET /api/admin/pricing/rules.
func (s *Server) ListPricingRules(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewListPricingRulesQuery(actor)
	if err != nil {
		return err
	}
	rules, err := s.h.ListPricingRules.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]PricingRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, toPricingRuleView(r))
	}
	return ok(ctx, http.StatusOK, Envelope{"rules": out})
}

// UpsertPricingRules handles PUT /api/admin/pricing/rules.
func (s *Server) UpsertPricingRules(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req PricingRulesRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpsertPricingRulesCommand(actor, toRuleInputs(req))
	if err != nil {
		return err
	}
	rules, err := s.h.UpsertPricingRules.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	out := make([]PricingRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, toPricingRule(r))
	}
	return ok(ctx, http.StatusOK, Envelope{"rules": out})
}

// ListSurgeZones handles GET /api/admin/pricing/surge.
func (s *Server) ListSurgeZones(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewListSurgeZonesQuery(actor)
	if err != nil {
		return err
	}
	zones, err := s.h.ListSurgeZones.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]SurgeZone, 0, len(zones))
	for _, z := range zones {
		out = append(out, toSurgeZoneView(z))
	}
	return ok(ctx, http.StatusOK, Envelope{"zones": out})
}

// CreateSurgeZone handles POST /api/admin/pricing/surge.
func (s *Server) CreateSurgeZone(ctx echo.Context) error {
	return s.upsertSurgeZone(ctx, nil, http.StatusCreated)
}

// UpdateSurgeZone handles PUT /api/admin/pricing/surge/{id}.
func (s *Server) UpdateSurgeZone(ctx echo.Context, id openapi_types.UUID) error {
	zoneID, err := uuidParam(id)
	if err != nil {
		return err
	}
	return s.upsertSurgeZone(ctx, &zoneID, http.StatusOK)
}

func (s *Server) upsertSurgeZone(ctx echo.Context, zoneID *kernel.UUID, status int) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req SurgeZoneRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}
	params, err := toSurgeZoneParams(req)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpsertSurgeZoneCommand(actor, zoneID, params)
	if err != nil {
		return err
	}
	zone, err := s.h.UpsertSurgeZone.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, status, Envelope{"zone": toSurgeZone(zone)})
}
