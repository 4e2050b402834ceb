package services

import (
	"slices"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"
)

// DefaultDispatchRadiusKm is the driver-facing matching radius.
const DefaultDispatchRadiusKm = 30.0

// Ranked pairs an item with its distance from the search origin. DistanceKm
// is nil when either side has no coordinates.
type Ranked[T any] struct {
	Item       T
	DistanceKm *float64
}

// RankByDistance keeps the items within radiusKm of origin and sorts them by
// ascending distance. Matching fails open: a missing origin or a missing item
// location counts as in range, and such items sort last in input order.
func RankByDistance[T any](
	origin *kernel.GeoPoint,
	radiusKm float64,
	items []T,
	locate func(T) *kernel.GeoPoint,
) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		loc := locate(item)
		if origin == nil || loc == nil {
			ranked = append(ranked, Ranked[T]{Item: item})
			continue
		}
		d := origin.DistanceTo(*loc)
		if d > radiusKm {
			continue
		}
		ranked = append(ranked, Ranked[T]{Item: item, DistanceKm: &d})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			return 0
		case a.DistanceKm == nil:
			return 1
		case b.DistanceKm == nil:
			return -1
		case *a.DistanceKm < *b.DistanceKm:
			return -1
		case *a.DistanceKm > *b.DistanceKm:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// GeoMatcher is a domain service that finds the contractors a new job should
// be offered to.
//
// Business rules:
//   - Only available contractors (online and approved) are offered jobs
//   - Contractors within the radius are sorted nearest first
//   - A job or contractor without coordinates is treated as in range
//
// Example usage:
//
//	matcher := services.NewGeoMatcher(services.DefaultDispatchRadiusKm)
//	for _, m := range matcher.Nearby(j.Location(), online) {
//	    // offer the job to m.Item
//	}
type GeoMatcher struct {
	radiusKm float64
}

// NewGeoMatcher creates a matcher; a non-positive radius falls back to
// DefaultDispatchRadiusKm.
func NewGeoMatcher(radiusKm float64) GeoMatcher {
	if radiusKm <= 0 {
		radiusKm = DefaultDispatchRadiusKm
	}
	return GeoMatcher{radiusKm: radiusKm}
}

func (g GeoMatcher) RadiusKm() float64 {
	return g.radiusKm
}

// Nearby returns the available contractors of pool in range of origin.
//
// Parameters:
//   - origin: job location, nil when the job has no coordinates
//   - pool: candidate contractors, usually the online ones
//
// Returns:
//   - []Ranked[*contractor.Contractor]: matches, nearest first, unknown distances last
func (g GeoMatcher) Nearby(origin *kernel.GeoPoint, pool []*contractor.Contractor) []Ranked[*contractor.Contractor] {
	available := make([]*contractor.Contractor, 0, len(pool))
	for _, c := range pool {
		if c.Validate() == nil && c.IsAvailable() {
			available = append(available, c)
		}
	}
	return RankByDistance(origin, g.radiusKm, available, (*contractor.Contractor).Location)
}
