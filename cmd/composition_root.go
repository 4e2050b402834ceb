package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpin "junkos/internal/adapters/in/http"
	"junkos/internal/adapters/out/live"
	"junkos/internal/adapters/out/postgres"
	"junkos/internal/adapters/out/rabbitmq"
	"junkos/internal/adapters/out/redis"
	"junkos/internal/adapters/out/s3"
	"junkos/internal/adapters/out/sendgrid"
	"junkos/internal/adapters/out/sns"
	"junkos/internal/adapters/out/stripe"
	"junkos/internal/adapters/out/twilio"
	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/jobs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	logger     *zap.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      ports.Clock

	kv         *redis.Store
	gateway    *stripe.Gateway
	photos     ports.PhotoStorage
	hub        *live.Hub
	publisher  *rabbitmq.Publisher
	dispatcher *dispatch.Dispatcher
	verifier   httpin.JWTVerifier

	engine  services.PricingEngine
	matcher services.GeoMatcher
}

// NewCompositionRoot wires the outbound adapters. Providers without
// credentials fall back to logging only, so a bare .env still boots.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, kv *redis.Store, logger *zap.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      ports.SystemClock{},
		kv:         kv,
		gateway:    stripe.NewGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, logger),
		verifier:   httpin.NewJWTVerifier(cfg.JWTSecret),
		matcher:    services.NewGeoMatcher(cfg.DispatchRadiusKm),
	}

	if cfg.SurgeGeofenceEnabled {
		c.engine = services.NewPricingEngine(services.SurgeByTimeWindowAndBoundary{})
	} else {
		c.engine = services.NewPricingEngine(services.SurgeByTimeWindow{})
	}

	sms, err := c.newSMSSender(ctx)
	if err != nil {
		return nil, err
	}
	email := sendgrid.NewSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, logger)

	if cfg.S3PhotoBucket != "" {
		photos, err := s3.NewPhotoStorage(ctx, cfg.AWSRegion, cfg.S3PhotoBucket, cfg.S3PublicBaseURL)
		if err != nil {
			return nil, err
		}
		c.photos = photos
	} else {
		logger.Warn("no photo bucket configured, photo uploads are disabled")
		c.photos = unconfiguredPhotoStorage{}
	}

	// The hub outlives any single request, so socket messages build fresh
	// handlers per message through the root.
	c.hub = live.NewHub(logger,
		live.WithLocationHandler(func(ctx context.Context, p live.Principal, lat, lng float64) error {
			update := httpin.LocationUpdater(c.CreateGetActorQueryHandler(), c.CreateUpdateContractorLocationCommandHandler())
			return update(ctx, p, lat, lng)
		}),
		live.WithRoomAuthorizer(func(ctx context.Context, p live.Principal, room string) (bool, error) {
			authorize := httpin.JobRoomAuthorizer(c.CreateGetActorQueryHandler(), c.CreateGetJobQueryHandler())
			return authorize(ctx, p, room)
		}),
	)

	channels := live.Fanout{c.hub}
	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			c.hub.Close()
			return nil, err
		}
		c.publisher = publisher
		channels = append(channels, publisher)
	}
	c.dispatcher = dispatch.NewDispatcher(channels, sms, email, cfg.ProviderTimeout, logger)

	return c, nil
}

func (c *CompositionRoot) newSMSSender(ctx context.Context) (ports.SMSSender, error) {
	switch c.cfg.SMSProvider {
	case "sns":
		sender, err := sns.NewSender(ctx, c.cfg.AWSRegion, c.logger)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case "", "twilio":
		return twilio.NewSender(c.cfg.TwilioAccountSID, c.cfg.TwilioAuthToken, c.cfg.TwilioFromNumber, c.logger), nil
	default:
		return nil, fmt.Errorf("unknown SMS_PROVIDER %q", c.cfg.SMSProvider)
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	return commands.NewCreateJobCommandHandler(c.uow(), c.dispatcher, c.engine, c.matcher, c.clock)
}

func (c *CompositionRoot) CreateCancelJobCommandHandler() commands.CancelJobCommandHandler {
	return commands.NewCancelJobCommandHandler(c.uow(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateAcceptJobCommandHandler() commands.AcceptJobCommandHandler {
	return commands.NewAcceptJobCommandHandler(c.uow(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateTransitionJobCommandHandler() commands.TransitionJobCommandHandler {
	return commands.NewTransitionJobCommandHandler(c.uow(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateAssignJobCommandHandler() commands.AssignJobCommandHandler {
	return commands.NewAssignJobCommandHandler(c.uow(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateRouteJobToOperatorCommandHandler() commands.RouteJobToOperatorCommandHandler {
	return commands.NewRouteJobToOperatorCommandHandler(c.uow(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateDelegateJobCommandHandler() commands.DelegateJobCommandHandler {
	return commands.NewDelegateJobCommandHandler(c.uow(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreatePresignPhotoUploadCommandHandler() commands.PresignPhotoUploadCommandHandler {
	return commands.NewPresignPhotoUploadCommandHandler(c.uow(), c.photos, c.clock)
}

func (c *CompositionRoot) CreateRegisterContractorCommandHandler() commands.RegisterContractorCommandHandler {
	return commands.NewRegisterContractorCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateReviewContractorCommandHandler() commands.ReviewContractorCommandHandler {
	return commands.NewReviewContractorCommandHandler(c.uow(), c.dispatcher, c.clock)
}

func (c *CompositionRoot) CreateSetAvailabilityCommandHandler() commands.SetAvailabilityCommandHandler {
	return commands.NewSetAvailabilityCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateUpdateContractorLocationCommandHandler() commands.UpdateContractorLocationCommandHandler {
	return commands.NewUpdateContractorLocationCommandHandler(c.uow(), c.dispatcher, c.kv, c.cfg.LocationPingInterval, c.clock)
}

func (c *CompositionRoot) CreateCreatePaymentIntentCommandHandler() commands.CreatePaymentIntentCommandHandler {
	return commands.NewCreatePaymentIntentCommandHandler(c.uow(), c.gateway, c.cfg.ProviderTimeout, c.clock)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.uow(), c.dispatcher, c.gateway, c.cfg.ProviderTimeout, c.clock)
}

func (c *CompositionRoot) CreateTriggerPayoutCommandHandler() commands.TriggerPayoutCommandHandler {
	return commands.NewTriggerPayoutCommandHandler(c.uow(), c.gateway, c.cfg.ProviderTimeout, c.clock)
}

func (c *CompositionRoot) CreateHandleProviderEventCommandHandler() commands.HandleProviderEventCommandHandler {
	return commands.NewHandleProviderEventCommandHandler(c.uow(), c.dispatcher, c.gateway, c.kv, c.clock, c.logger)
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	return commands.NewMarkNotificationReadCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateUpsertPricingRulesCommandHandler() commands.UpsertPricingRulesCommandHandler {
	return commands.NewUpsertPricingRulesCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateUpsertSurgeZoneCommandHandler() commands.UpsertSurgeZoneCommandHandler {
	return commands.NewUpsertSurgeZoneCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateCreateInviteCommandHandler() commands.CreateInviteCommandHandler {
	return commands.NewCreateInviteCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateRevokeInviteCommandHandler() commands.RevokeInviteCommandHandler {
	return commands.NewRevokeInviteCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateExpireInvitesCommandHandler() commands.ExpireInvitesCommandHandler {
	return commands.NewExpireInvitesCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateMarkStaleContractorsOfflineCommandHandler() commands.MarkStaleContractorsOfflineCommandHandler {
	return commands.NewMarkStaleContractorsOfflineCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateEstimatePriceQueryHandler() queries.EstimatePriceQueryHandler {
	return queries.NewEstimatePriceQueryHandler(c.uowFactory, c.engine, c.clock)
}

func (c *CompositionRoot) CreateGetActorQueryHandler() queries.GetActorQueryHandler {
	return queries.NewGetActorQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetJobQueryHandler() queries.GetJobQueryHandler {
	return queries.NewGetJobQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListCustomerJobsQueryHandler() queries.ListCustomerJobsQueryHandler {
	return queries.NewListCustomerJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListJobsQueryHandler() queries.ListJobsQueryHandler {
	return queries.NewListJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAvailableJobsQueryHandler() queries.ListAvailableJobsQueryHandler {
	return queries.NewListAvailableJobsQueryHandler(c.gormDB, c.cfg.DispatchRadiusKm)
}

func (c *CompositionRoot) CreateGetContractorEarningsQueryHandler() queries.GetContractorEarningsQueryHandler {
	return queries.NewGetContractorEarningsQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateListNotificationsQueryHandler() queries.ListNotificationsQueryHandler {
	return queries.NewListNotificationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAdminDashboardQueryHandler() queries.GetAdminDashboardQueryHandler {
	return queries.NewGetAdminDashboardQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateListPricingRulesQueryHandler() queries.ListPricingRulesQueryHandler {
	return queries.NewListPricingRulesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListSurgeZonesQueryHandler() queries.ListSurgeZonesQueryHandler {
	return queries.NewListSurgeZonesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOperatorDashboardQueryHandler() queries.GetOperatorDashboardQueryHandler {
	return queries.NewGetOperatorDashboardQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateGetFleetQueryHandler() queries.GetFleetQueryHandler {
	return queries.NewGetFleetQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListInvitesQueryHandler() queries.ListInvitesQueryHandler {
	return queries.NewListInvitesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOperatorJobsQueryHandler() queries.ListOperatorJobsQueryHandler {
	return queries.NewListOperatorJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOperatorEarningsQueryHandler() queries.GetOperatorEarningsQueryHandler {
	return queries.NewGetOperatorEarningsQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateJob:                c.CreateCreateJobCommandHandler(),
		CancelJob:                c.CreateCancelJobCommandHandler(),
		AcceptJob:                c.CreateAcceptJobCommandHandler(),
		TransitionJob:            c.CreateTransitionJobCommandHandler(),
		AssignJob:                c.CreateAssignJobCommandHandler(),
		RouteJobToOperator:       c.CreateRouteJobToOperatorCommandHandler(),
		DelegateJob:              c.CreateDelegateJobCommandHandler(),
		PresignPhotoUpload:       c.CreatePresignPhotoUploadCommandHandler(),
		RegisterContractor:       c.CreateRegisterContractorCommandHandler(),
		ReviewContractor:         c.CreateReviewContractorCommandHandler(),
		SetAvailability:          c.CreateSetAvailabilityCommandHandler(),
		UpdateContractorLocation: c.CreateUpdateContractorLocationCommandHandler(),
		CreatePaymentIntent:      c.CreateCreatePaymentIntentCommandHandler(),
		ConfirmPayment:           c.CreateConfirmPaymentCommandHandler(),
		TriggerPayout:            c.CreateTriggerPayoutCommandHandler(),
		HandleProviderEvent:      c.CreateHandleProviderEventCommandHandler(),
		MarkNotificationRead:     c.CreateMarkNotificationReadCommandHandler(),
		UpsertPricingRules:       c.CreateUpsertPricingRulesCommandHandler(),
		UpsertSurgeZone:          c.CreateUpsertSurgeZoneCommandHandler(),
		CreateInvite:             c.CreateCreateInviteCommandHandler(),
		RevokeInvite:             c.CreateRevokeInviteCommandHandler(),

		EstimatePrice:         c.CreateEstimatePriceQueryHandler(),
		GetJob:                c.CreateGetJobQueryHandler(),
		ListCustomerJobs:      c.CreateListCustomerJobsQueryHandler(),
		ListJobs:              c.CreateListJobsQueryHandler(),
		ListAvailableJobs:     c.CreateListAvailableJobsQueryHandler(),
		GetContractorEarnings: c.CreateGetContractorEarningsQueryHandler(),
		ListNotifications:     c.CreateListNotificationsQueryHandler(),
		GetAdminDashboard:     c.CreateGetAdminDashboardQueryHandler(),
		ListPricingRules:      c.CreateListPricingRulesQueryHandler(),
		ListSurgeZones:        c.CreateListSurgeZonesQueryHandler(),
		GetOperatorDashboard:  c.CreateGetOperatorDashboardQueryHandler(),
		GetFleet:              c.CreateGetFleetQueryHandler(),
		ListInvites:           c.CreateListInvitesQueryHandler(),
		ListOperatorJobs:      c.CreateListOperatorJobsQueryHandler(),
		GetOperatorEarnings:   c.CreateGetOperatorEarningsQueryHandler(),

		Health: c.Health,
	})
}

// Health pings Postgres and Redis.
func (c *CompositionRoot) Health(ctx context.Context) error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := c.kv.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// CreateEcho builds the HTTP server. doc may be nil to skip the docs routes.
func (c *CompositionRoot) CreateEcho(doc *openapi3.T) *echo.Echo {
	return httpin.NewEcho(httpin.RouterConfig{
		Server:         c.CreateServer(),
		Hub:            c.hub,
		Verifier:       c.verifier,
		Resolver:       c.CreateGetActorQueryHandler(),
		Doc:            doc,
		Logger:         c.logger,
		AllowOrigins:   c.cfg.CORSAllowOrigins,
		RateLimitRPS:   c.cfg.RateLimitRPS,
		RateLimitBurst: c.cfg.RateLimitBurst,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireInvitesCommandHandler(),
		c.CreateMarkStaleContractorsOfflineCommandHandler(),
		c.cfg.StaleContractorAfter,
		c.logger,
	)
}

// Close waits for in-flight notifications, then releases the live
// channels.
func (c *CompositionRoot) Close() error {
	c.dispatcher.Wait()
	c.hub.Close()
	if c.publisher != nil {
		return c.publisher.Close()
	}
	return nil
}

type unconfiguredPhotoStorage struct{}

func (unconfiguredPhotoStorage) PresignUpload(context.Context, string, string, time.Duration) (string, string, error) {
	return "", "", errors.New("photo storage is not configured")
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
