package http

import (
	"context"
	"errors"

	"junkos/internal/adapters/out/live"
	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// RegisterLive mounts the websocket endpoint at /ws.
func RegisterLive(router EchoRouter, hub *live.Hub, auth echo.MiddlewareFunc) {
	router.GET("/ws", liveHandler(hub), auth)
}

func liveHandler(hub *live.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		return hub.Serve(c.Response(), c.Request(), principalOf(actor))
	}
}

func principalOf(actor services.Actor) live.Principal {
	p := live.Principal{UserID: actor.UserID.String(), IsAdmin: actor.IsAdmin()}
	if actor.ContractorID != nil {
		p.ContractorID = actor.ContractorID.String()
	}
	return p
}

// JobViewer loads a job the way GET /api/jobs/:id does, including the
// visibility check.
type JobViewer interface {
	Handle(ctx context.Context, query queries.GetJobQuery) (queries.GetJobQueryResponse, error)
}

// JobRoomAuthorizer admits a principal to a job room when it may view the
// job: its customer, its driver, the operator it was routed to, or an admin.
func JobRoomAuthorizer(resolver ActorResolver, jobs JobViewer) live.RoomAuthorizer {
	return func(ctx context.Context, p live.Principal, room string) (bool, error) {
		jobID, err := kernel.UUIDFromString(room)
		if err != nil {
			return false, nil
		}
		actor, err := resolvePrincipal(ctx, resolver, p)
		if err != nil {
			return false, err
		}
		query, err := queries.NewGetJobQuery(actor, jobID)
		if err != nil {
			return false, err
		}
		if _, err = jobs.Handle(ctx, query); err != nil {
			if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrObjectNotFound) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
}

func resolvePrincipal(ctx context.Context, resolver ActorResolver, p live.Principal) (services.Actor, error) {
	userID, err := kernel.UUIDFromString(p.UserID)
	if err != nil {
		return services.Actor{}, err
	}
	query, err := queries.NewGetActorQuery(userID)
	if err != nil {
		return services.Actor{}, err
	}
	return resolver.Handle(ctx, query)
}

// LocationUpdater feeds driver:location socket messages into the same use
// case as PUT /api/drivers/location.
func LocationUpdater(resolver ActorResolver, handler commands.UpdateContractorLocationCommandHandler) live.LocationFunc {
	return func(ctx context.Context, p live.Principal, lat, lng float64) error {
		actor, err := resolvePrincipal(ctx, resolver, p)
		if err != nil {
			return err
		}

		location, err := kernel.NewGeoPoint(lat, lng)
		if err != nil {
			return err
		}
		cmd, err := commands.NewUpdateContractorLocationCommand(actor, location)
		if err != nil {
			return err
		}
		_, err = handler.Handle(ctx, cmd)
		return err
	}
}
