package http

import (
	"net/http"

	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GetOperatorDashboard handles GET /api/operator/dashboard.
func (s *Server) GetOperatorDashboard(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOperatorDashboardQuery(actor)
	if err != nil {
		return err
	}
	d, err := s.h.GetOperatorDashboard.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"dashboard": OperatorDashboard{
		FleetSize:         d.FleetSize,
		OnlineCount:       d.OnlineCount,
		PendingDelegation: d.PendingDelegation,
		Earnings30d:       d.Earnings30d.Float64(),
	}})
}

// GetFleet handles GET /api/operator/fleet.
func (s *Server) GetFleet(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetFleetQuery(actor)
	if err != nil {
		return err
	}
	members, err := s.h.GetFleet.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]FleetMember, 0, len(members))
	for _, m := range members {
		out = append(out, FleetMember{
			ID:             m.ID.String(),
			Name:           m.Name,
			Email:          m.Email,
			TruckType:      m.TruckType,
			IsOnline:       m.IsOnline,
			Rating:         m.Rating,
			TotalJobs:      m.TotalJobs,
			ApprovalStatus: m.ApprovalStatus.String(),
		})
	}
	return ok(ctx, http.StatusOK, Envelope{"fleet": out})
}

// CreateInvite handles POST /api/operator/invites.
func (s *Server) CreateInvite(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var req InviteRequest
	if err = bind(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateInviteCommand(actor, req.Email, req.MaxUses, req.ExpiresAt)
	if err != nil {
		return err
	}
	inv, err := s.h.CreateInvite.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusCreated, Envelope{"invite": toInvite(inv)})
}

// ListInvites handles GET /api/operator/invites.
func (s *Server) ListInvites(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewListInvitesQuery(actor)
	if err != nil {
		return err
	}
	invites, err := s.h.ListInvites.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]Invite, 0, len(invites))
	for _, v := range invites {
		out = append(out, toInviteView(v))
	}
	return ok(ctx, http.StatusOK, Envelope{"invites": out})
}

// RevokeInvite handles DELETE /api/operator/invites/{id}.
func (s *Server) RevokeInvite(ctx echo.Context, id openapi_types.UUID) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	inviteID, err := uuidParam(id)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRevokeInviteCommand(actor, inviteID)
	if err != nil {
		return err
	}
	if err = s.h.RevokeInvite.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, nil)
}

// ListOperatorJobs handles GET /api/operator/jobs.
func (s *Server) ListOperatorJobs(ctx echo.Context, params ListOperatorJobsParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var raw string
	if params.Filter != nil {
		raw = *params.Filter
	}
	filter, err := queries.ParseOperatorJobFilter(raw)
	if err != nil {
		return err
	}

	query, err := queries.NewListOperatorJobsQuery(actor, filter, pagination(params.Page, params.PerPage))
	if err != nil {
		return err
	}
	page, err := s.h.ListOperatorJobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	out := make([]OperatorJob, 0, len(page.Items))
	for _, j := range page.Items {
		out = append(out, OperatorJob{
			Job:           toJobView(j.JobView),
			DriverName:    j.DriverName,
			CustomerName:  j.CustomerName,
			CustomerEmail: j.CustomerEmail,
		})
	}
	return paged(ctx, "jobs", out, page, nil)
}

// DelegateJob handles PUT /api/operator/jobs/{id}/delegate.
func (s *Server) DelegateJob(ctx echo.Context, id openapi_types.UUID) error {
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

	cmd, err := commands.NewDelegateJobCommand(actor, jobID, contractorID)
	if err != nil {
		return err
	}
	j, err := s.h.DelegateJob.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, Envelope{"job": toJob(j)})
}

// GetOperatorEarnings handles GET /api/operator/earnings.
func (s *Server) GetOperatorEarnings(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOperatorEarningsQuery(actor)
	if err != nil {
		return err
	}
	e, err := s.h.GetOperatorEarnings.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	per := make([]ContractorCommission, 0, len(e.PerContractor))
	for _, c := range e.PerContractor {
		per = append(per, ContractorCommission{
			ContractorID: c.ContractorID.String(),
			Name:         c.Name,
			Commission:   c.Commission.Float64(),
			Jobs:         c.Jobs,
		})
	}
	return ok(ctx, http.StatusOK, Envelope{"earnings": OperatorEarnings{
		Total:         e.Total.Float64(),
		Last30d:       e.Last30d.Float64(),
		Last7d:        e.Last7d.Float64(),
		PerContractor: per,
	}})
}
