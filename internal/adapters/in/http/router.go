package http

import (
	"time"

	"junkos/internal/adapters/out/live"
	"junkos/internal/core/ports"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const rateLimiterIdleTTL = 10 * time.Minute

type RouterConfig struct {
	Server   *Server
	Hub      *live.Hub
	Verifier ports.IdentityVerifier
	Resolver ActorResolver
	// Doc enables /openapi.json and /docs when set.
	Doc    *openapi3.T
	Logger *zap.Logger

	AllowOrigins   []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewEcho builds the HTTP stack: access log, panic recovery, CORS and rate
// limiting around the API, websocket and docs routes.
func NewEcho(cfg RouterConfig) *echo.Echo {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(logger)

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(
		AccessLog(logger),
		middleware.Recover(),
		middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: origins}),
		RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimiterIdleTTL),
	)

	RegisterHandlers(e, cfg.Server, Authenticate(cfg.Verifier, cfg.Resolver, false))
	if cfg.Hub != nil {
		RegisterLive(e, cfg.Hub, Authenticate(cfg.Verifier, cfg.Resolver, true))
	}
	if cfg.Doc != nil {
		RegisterDocs(e, cfg.Doc)
	}
	return e
}
