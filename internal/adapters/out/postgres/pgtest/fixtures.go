package pgtest

import (
	"context"
	"time"

	"junkos/internal/adapters/out/postgres/userrepo"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/user"

	"gorm.io/gorm"
)

// InsertUser writes a users row the way the identity service would.
func InsertUser(ctx context.Context, db *gorm.DB, role user.Role, name string) (kernel.UUID, error) {
	id := kernel.NewUUID()
	dto := userrepo.UserDTO{
		ID:        id.Bytes(),
		Role:      role.String(),
		Name:      name,
		Email:     id.String()[:8] + "@example.com",
		Phone:     "+15615550100",
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&dto).Error; err != nil {
		return kernel.UUID{}, err
	}
	return id, nil
}

// NewJob builds a pending job of two furniture items, priced at 268.92 without
// surge, at the given coordinates (nil for none).
func NewJob(customerID kernel.UUID, at *kernel.GeoPoint, now time.Time) (*job.Job, error) {
	item, err := job.NewLineItem("furniture", 2, map[string]any{"description": "two sofas"})
	if err != nil {
		return nil, err
	}
	price, err := job.NewPriceBreakdown(9900, 15000, 0, 1.0, 0.08)
	if err != nil {
		return nil, err
	}
	return job.NewJob(job.NewJobParams{
		ID:         kernel.NewUUID(),
		CustomerID: customerID,
		Address:    "100 Clematis St, West Palm Beach, FL",
		Location:   at,
		Items:      []job.LineItem{item},
		Price:      price,
		Now:        now,
	})
}

// NewApprovedContractor builds an approved, online contractor, optionally at
// a location.
func NewApprovedContractor(userID kernel.UUID, isOperator bool, at *kernel.GeoPoint, now time.Time) (*contractor.Contractor, error) {
	c, err := contractor.NewContractor(kernel.NewUUID(), userID, "box truck", isOperator, now)
	if err != nil {
		return nil, err
	}
	c.Approve(now)
	if err = c.SetAvailability(true, now); err != nil {
		return nil, err
	}
	if at != nil {
		if err = c.UpdateLocation(*at, now); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Point is NewGeoPoint for literals known to be valid.
func Point(lat, lng float64) *kernel.GeoPoint {
	p, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return &p
}
