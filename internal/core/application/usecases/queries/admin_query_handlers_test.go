package queries_test

import (
	"context"
	"time"

	"junkos/internal/adapters/out/postgres"
	"junkos/internal/adapters/out/postgres/pgtest"
	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/invite"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
)

func (s *QueryHandlersTestSuite) TestGetAdminDashboard() {
	ctx := context.Background()
	admin := s.admin()
	cust := s.newUser(user.RoleCustomer, "Dana")
	driver, _ := s.newContractor("Sam", false, nil)

	applicant := s.newUser(user.RoleDriver, "Pat")
	pending, err := contractor.NewContractor(kernel.NewUUID(), applicant.UserID, "pickup", false, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.contractors.Add(ctx, pending))

	s.addJob(cust.UserID, nil, 0, nil)
	s.addJob(cust.UserID, nil, 0, func(j *job.Job) {
		s.Require().NoError(j.Assign(driver.ID(), s.now))
		s.Require().NoError(j.TransitionTo(job.EnRoute, nil, s.now))
	})
	done := s.addJob(cust.UserID, nil, 0, func(j *job.Job) {
		s.Require().NoError(j.Assign(driver.ID(), s.now))
		for _, next := range []job.Status{job.EnRoute, job.Arrived, job.Started, job.Completed} {
			s.Require().NoError(j.TransitionTo(next, nil, s.now))
		}
	})
	recent := s.pay(done, 0, nil, s.now.Add(-time.Hour))
	s.pay(s.addJob(cust.UserID, nil, 0, func(j *job.Job) {
		s.Require().NoError(j.CancelByCustomer(s.now))
	}), 0, nil, s.now.Add(-90*day))

	q, err := queries.NewGetAdminDashboardQuery(admin)
	s.Require().NoError(err)

	got, err := queries.NewGetAdminDashboardQueryHandler(s.pg.DB, s.clock()).Handle(ctx, q)

	s.Require().NoError(err)
	s.Equal(4, got.TotalJobs)
	s.Equal(1, got.CompletedJobs)
	s.Equal(1, got.PendingJobs)
	s.Equal(1, got.ActiveJobs)
	s.Equal(4, got.TotalUsers)
	s.Equal(2, got.TotalContractors)
	s.Equal(1, got.ApprovedContractors)
	s.Equal(1, got.OnlineContractors)
	s.Equal(recent.Amount(), got.Revenue30d)
	s.Equal(recent.Split().Commission(), got.Commission30d)
}

func (s *QueryHandlersTestSuite) TestGetAdminDashboard_RequiresAdmin() {
	q, err := queries.NewGetAdminDashboardQuery(s.newUser(user.RoleCustomer, "Dana"))
	s.Require().NoError(err)

	_, err = queries.NewGetAdminDashboardQueryHandler(s.pg.DB, s.clock()).Handle(context.Background(), q)

	s.Require().ErrorIs(err, errs.ErrForbidden)
}

func (s *QueryHandlersTestSuite) TestListPricingRules_OrderedByCategory() {
	ctx := context.Background()
	for _, r := range []struct {
		category string
		price    kernel.Money
	}{{"furniture", 7500}, {"appliances", 10000}} {
		rule, err := pricing.NewRule(kernel.NewUUID(), r.category, r.price, true, "per item", s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.pricing.SaveRule(ctx, rule))
	}

	q, err := queries.NewListPricingRulesQuery(s.admin())
	s.Require().NoError(err)

	got, err := queries.NewListPricingRulesQueryHandler(s.pg.DB).Handle(ctx, q)

	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("appliances", got[0].Category)
	s.Equal(kernel.Money(10000), got[0].UnitPrice)
	s.Equal("furniture", got[1].Category)
	s.True(got[1].IsActive)
}

func (s *QueryHandlersTestSuite) TestListSurgeZones() {
	ctx := context.Background()
	zone, err := pricing.NewSurgeZone(pricing.SurgeZoneParams{
		ID:   kernel.NewUUID(),
		Name: "Downtown nights",
		Boundary: []kernel.GeoPoint{
			*pgtest.Point(26.70, -80.07),
			*pgtest.Point(26.73, -80.07),
			*pgtest.Point(26.73, -80.04),
		},
		Multiplier: 1.5,
		IsActive:   true,
		StartTime:  "22:00",
		EndTime:    "02:00",
		Weekdays:   []int{4, 5},
		UpdatedAt:  s.now,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.pricing.SaveSurgeZone(ctx, zone))

	q, err := queries.NewListSurgeZonesQuery(s.admin())
	s.Require().NoError(err)

	got, err := queries.NewListSurgeZonesQueryHandler(s.pg.DB).Handle(ctx, q)

	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Downtown nights", got[0].Name)
	s.InDelta(1.5, got[0].Multiplier, 1e-9)
	s.Equal("22:00", got[0].StartTime)
	s.Equal("02:00", got[0].EndTime)
	s.Equal([]int{4, 5}, got[0].Weekdays)
	s.Require().Len(got[0].Boundary, 3)
	s.Equal(queries.Vertex{Lat: 26.73, Lng: -80.04}, got[0].Boundary[2])
}

func (s *QueryHandlersTestSuite) TestListInvites_OnlyTheOperatorsOwn() {
	ctx := context.Background()
	op, opActor := s.newContractor("Olive", true, nil)
	other, _ := s.newContractor("Otto", true, nil)

	add := func(opID kernel.UUID, code string, at time.Time) *invite.Invite {
		inv, err := invite.NewInvite(kernel.NewUUID(), opID, code, "", 5, nil, at)
		s.Require().NoError(err)
		s.Require().NoError(s.invites.Add(ctx, inv))
		return inv
	}
	older := add(op.ID(), "olderaaa", s.now.Add(-time.Hour))
	newer := add(op.ID(), "newerbbb", s.now)
	add(other.ID(), "otherccc", s.now)

	q, err := queries.NewListInvitesQuery(opActor)
	s.Require().NoError(err)

	got, err := queries.NewListInvitesQueryHandler(s.pg.DB).Handle(ctx, q)

	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(got[0].ID.IsEqual(newer.ID()))
	s.Equal("NEWERBBB", got[0].Code)
	s.True(got[1].ID.IsEqual(older.ID()))
	s.Equal(5, got[1].MaxUses)
	s.Nil(got[1].ExpiresAt)
}

func (s *QueryHandlersTestSuite) TestListNotifications_UnreadFilterAndCount() {
	ctx := context.Background()
	owner := s.newUser(user.RoleCustomer, "Dana")
	someoneElse := s.newUser(user.RoleCustomer, "Eli")

	add := func(userID kernel.UUID, title string, at time.Time, read bool) *notification.Notification {
		n, err := notification.NewNotification(kernel.NewUUID(), userID, notification.TypeJobUpdate, title, "body",
			map[string]any{"job_id": "j-1"}, at)
		s.Require().NoError(err)
		if read {
			s.Require().NoError(n.MarkRead(userID))
		}
		s.Require().NoError(s.notifications.Add(ctx, n))
		return n
	}
	add(owner.UserID, "First", s.now.Add(-2*time.Minute), true)
	second := add(owner.UserID, "Second", s.now.Add(-time.Minute), false)
	third := add(owner.UserID, "Third", s.now, false)
	add(someoneElse.UserID, "Elsewhere", s.now, false)

	handler := queries.NewListNotificationsQueryHandler(s.pg.DB)

	q, err := queries.NewListNotificationsQuery(owner, false, queries.Pagination{})
	s.Require().NoError(err)
	all, err := handler.Handle(ctx, q)
	s.Require().NoError(err)
	s.Equal(int64(3), all.Total)
	s.Equal(int64(2), all.UnreadCount)
	s.Require().Len(all.Items, 3)
	s.True(all.Items[0].ID.IsEqual(third.ID()))
	s.Equal(notification.TypeJobUpdate, all.Items[0].Type)
	s.Equal(map[string]any{"job_id": "j-1"}, all.Items[0].Data)

	q, err = queries.NewListNotificationsQuery(owner, true, queries.NewPagination(2, 1))
	s.Require().NoError(err)
	unread, err := handler.Handle(ctx, q)
	s.Require().NoError(err)
	s.Equal(int64(2), unread.Total)
	s.Equal(2, unread.Pages)
	s.Require().Len(unread.Items, 1)
	s.True(unread.Items[0].ID.IsEqual(second.ID()))
	s.False(unread.Items[0].IsRead)
}

func (s *QueryHandlersTestSuite) TestEstimatePrice() {
	ctx := context.Background()
	rule, err := pricing.NewRule(kernel.NewUUID(), "furniture", 7500, true, "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.pricing.SaveRule(ctx, rule))

	item, err := job.NewLineItem("furniture", 2, nil)
	s.Require().NoError(err)
	q, err := queries.NewEstimatePriceQuery([]job.LineItem{item}, nil)
	s.Require().NoError(err)

	handler := queries.NewEstimatePriceQueryHandler(postgres.NewGormUnitOfWorkFactory(s.pg.DB),
		services.NewPricingEngine(nil), s.clock())

	est, err := handler.Handle(ctx, q)
	s.Require().NoError(err)
	s.Equal(kernel.Money(26892), est.Price.Total())
	s.Equal(46, est.EstimatedDurationMinutes)

	zone, err := pricing.NewSurgeZone(pricing.SurgeZoneParams{
		ID:         kernel.NewUUID(),
		Name:       "Everywhere",
		Multiplier: 1.5,
		IsActive:   true,
		UpdatedAt:  s.now,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.pricing.SaveSurgeZone(ctx, zone))

	est, err = handler.Handle(ctx, q)
	s.Require().NoError(err)
	s.InDelta(1.5, est.Price.SurgeMultiplier(), 1e-9)
	s.Equal(kernel.Money(40338), est.Price.Total())
}
