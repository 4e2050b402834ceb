package http

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

var _ ports.IdentityVerifier = JWTVerifier{}

// JWTVerifier checks HS256 tokens issued by the identity service. The
// subject claim carries the user id.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) JWTVerifier {
	return JWTVerifier{secret: []byte(secret)}
}

func (v JWTVerifier) Verify(_ context.Context, token string) (kernel.UUID, error) {
	if len(v.secret) == 0 {
		return kernel.UUID{}, errs.NewUnauthorizedError(errors.New("token verification is not configured"))
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return kernel.UUID{}, errs.NewUnauthorizedError(err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return kernel.UUID{}, errs.NewUnauthorizedError(errors.New("token has no subject"))
	}
	id, err := kernel.UUIDFromString(subject)
	if err != nil {
		return kernel.UUID{}, errs.NewUnauthorizedError(fmt.Errorf("subject is not a user id: %w", err))
	}
	return id, nil
}

// Issue signs a token for userID. Used by tests and local tooling; real
// tokens come from the identity service.
func (v JWTVerifier) Issue(userID kernel.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// ActorResolver loads the caller's role and contractor profile.
type ActorResolver interface {
	Handle(ctx context.Context, query queries.GetActorQuery) (services.Actor, error)
}

// Authenticate resolves the bearer token into an Actor stored on the echo
// context. When allowQueryToken is set, ?token= is accepted as well since
// browsers cannot set headers on websocket upgrades.
func Authenticate(verifier ports.IdentityVerifier, resolver ActorResolver, allowQueryToken bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" && allowQueryToken {
				token = c.QueryParam("token")
			}
			if token == "" {
				return errs.NewUnauthorizedError(errors.New("missing bearer token"))
			}

			ctx := c.Request().Context()
			userID, err := verifier.Verify(ctx, token)
			if err != nil {
				return err
			}

			query, err := queries.NewGetActorQuery(userID)
			if err != nil {
				return errs.NewUnauthorizedError(err)
			}
			actor, err := resolver.Handle(ctx, query)
			if err != nil {
				if errors.Is(err, errs.ErrObjectNotFound) {
					return errs.NewUnauthorizedError(err)
				}
				return err
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// actorFrom returns the authenticated caller.
func actorFrom(c echo.Context) (services.Actor, error) {
	actor, ok := c.Get(actorContextKey).(services.Actor)
	if !ok {
		return services.Actor{}, errs.NewUnauthorizedError(errors.New("request is not authenticated"))
	}
	return actor, nil
}
