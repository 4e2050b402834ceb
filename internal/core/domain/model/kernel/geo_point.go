package kernel

import (
	"fmt"
	"math"

	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint")

// GeoPoint is an immutable WGS84 coordinate in decimal degrees.
//
//	job, _ := kernel.NewGeoPoint(25.80, -80.14)
//	driver, _ := kernel.NewGeoPoint(25.79, -80.13)
//	km := job.DistanceTo(driver) // ~1.5
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates latitude in [-90, 90] and longitude in [-180, 180].
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("lat", lat, -90, 90)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("lng", lng, -180, 180)
	}
	return GeoPoint{lat: lat, lng: lng, guard: guard.NewConstructorGuard()}, nil
}

// NewOptionalGeoPoint builds a point only when both coordinates are present.
// One coordinate without the other is a validation error.
func NewOptionalGeoPoint(lat, lng *float64) (*GeoPoint, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("location",
			fmt.Errorf("lat and lng must be provided together"))
	}
	p, err := NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Lat() float64 { return p.lat }

func (p GeoPoint) Lng() float64 { return p.lng }

func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lng)
}

// DistanceTo returns the great-circle distance in kilometers.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	lat1 := p.lat * math.Pi / 180
	lat2 := other.lat * math.Pi / 180
	dLat := (other.lat - p.lat) * math.Pi / 180
	dLng := (other.lng - p.lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Coordinates unpacks an optional point for nullable columns.
func Coordinates(p *GeoPoint) (lat, lng *float64) {
	if p == nil {
		return nil, nil
	}
	la, ln := p.lat, p.lng
	return &la, &ln
}
