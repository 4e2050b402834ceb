package live

import (
	"context"
	"errors"

	"junkos/internal/core/ports"
)

// Fanout emits every event to each channel in turn. A failing channel does
// not stop delivery to the others.
type Fanout []ports.LiveChannel

func (f Fanout) Emit(ctx context.Context, room, event string, payload any) error {
	var errs []error
	for _, ch := range f {
		if ch == nil {
			continue
		}
		if err := ch.Emit(ctx, room, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
