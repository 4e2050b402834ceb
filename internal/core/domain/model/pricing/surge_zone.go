package pricing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

// SurgeZone is a named price multiplier limited to a weekday set, a time of
// day window and a polygon boundary. Each limit is optional.
type SurgeZone struct {
	id         kernel.UUID
	name       string
	boundary   []kernel.GeoPoint
	multiplier float64
	isActive   bool
	window     Window
	weekdays   []int
	updatedAt  time.Time
}

type SurgeZoneParams struct {
	ID         kernel.UUID
	Name       string
	Boundary   []kernel.GeoPoint
	Multiplier float64
	IsActive   bool
	StartTime  string
	EndTime    string
	// Weekdays uses Monday = 0 through Sunday = 6.
	Weekdays  []int
	UpdatedAt time.Time
}

func NewSurgeZone(p SurgeZoneParams) (*SurgeZone, error) {
	z := &SurgeZone{id: p.ID, updatedAt: p.UpdatedAt}
	if err := z.apply(p); err != nil {
		return nil, err
	}
	return z, nil
}

// Update replaces every field but the id.
func (z *SurgeZone) Update(p SurgeZoneParams) error {
	p.ID = z.id
	next := &SurgeZone{id: z.id, updatedAt: p.UpdatedAt}
	if err := next.apply(p); err != nil {
		return err
	}
	*z = *next
	return nil
}

func (z *SurgeZone) apply(p SurgeZoneParams) error {
	if err := p.ID.Validate(); err != nil {
		return err
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if p.Multiplier < 1 {
		return errs.NewValueIsOutOfRangeError("surge multiplier", p.Multiplier, 1, "unbounded")
	}
	if len(p.Boundary) > 0 && len(p.Boundary) < 3 {
		return errs.NewValueIsInvalidErrorWithCause("boundary",
			fmt.Errorf("a polygon needs at least 3 vertices, got %d", len(p.Boundary)))
	}
	for _, d := range p.Weekdays {
		if d < 0 || d > 6 {
			return errs.NewValueIsOutOfRangeError("day of week", d, 0, 6)
		}
	}
	w, err := NewWindow(p.StartTime, p.EndTime)
	if err != nil {
		return err
	}

	z.name = name
	z.boundary = slices.Clone(p.Boundary)
	z.multiplier = p.Multiplier
	z.isActive = p.IsActive
	z.window = w
	z.weekdays = slices.Clone(p.Weekdays)
	return nil
}

func (z *SurgeZone) ID() kernel.UUID             { return z.id }
func (z *SurgeZone) Name() string                { return z.name }
func (z *SurgeZone) Boundary() []kernel.GeoPoint { return slices.Clone(z.boundary) }
func (z *SurgeZone) Multiplier() float64         { return z.multiplier }
func (z *SurgeZone) IsActive() bool              { return z.isActive }
func (z *SurgeZone) Window() Window              { return z.window }
func (z *SurgeZone) Weekdays() []int             { return slices.Clone(z.weekdays) }
func (z *SurgeZone) UpdatedAt() time.Time        { return z.updatedAt }

// Weekday converts Go's Sunday-based weekday to Monday = 0.
func Weekday(t time.Time) int {
	return (int(t.UTC().Weekday()) + 6) % 7
}

// AppliesAt reports whether an active zone's day and time filters match.
func (z *SurgeZone) AppliesAt(now time.Time) bool {
	if !z.isActive {
		return false
	}
	if len(z.weekdays) > 0 && !slices.Contains(z.weekdays, Weekday(now)) {
		return false
	}
	return z.window.Contains(ClockTimeOf(now))
}

// Contains tests the point against the boundary polygon with ray casting. A
// zone without boundary contains every point; a missing point is outside
// every bounded zone.
func (z *SurgeZone) Contains(point *kernel.GeoPoint) bool {
	if len(z.boundary) == 0 {
		return true
	}
	if point == nil {
		return false
	}

	x, y := point.Lng(), point.Lat()
	inside := false
	for i, j := 0, len(z.boundary)-1; i < len(z.boundary); j, i = i, i+1 {
		xi, yi := z.boundary[i].Lng(), z.boundary[i].Lat()
		xj, yj := z.boundary[j].Lng(), z.boundary[j].Lat()
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
