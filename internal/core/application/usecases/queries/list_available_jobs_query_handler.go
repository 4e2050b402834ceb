package queries

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"

	"gorm.io/gorm"
)

// ListAvailableJobsQueryHandler ranks pending jobs by distance from the
// contractor's last known location. Jobs without coordinates, or every job
// when the contractor has never sent a location, are listed last.
type ListAvailableJobsQueryHandler struct {
	db              *gorm.DB
	defaultRadiusKm float64
}

func NewListAvailableJobsQueryHandler(db *gorm.DB, defaultRadiusKm float64) ListAvailableJobsQueryHandler {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = services.DefaultDispatchRadiusKm
	}
	return ListAvailableJobsQueryHandler{db: db, defaultRadiusKm: defaultRadiusKm}
}

func (h ListAvailableJobsQueryHandler) Handle(ctx context.Context, query ListAvailableJobsQuery) ([]AvailableJob, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	contractorID, err := requireContractor(query.Actor(), "list available jobs")
	if err != nil {
		return nil, err
	}

	var (
		approval string
		lat, lng *float64
	)
	err = h.db.WithContext(ctx).Raw(`
		SELECT approval_status, lat, lng
		FROM contractors
		WHERE id = ?
	`, contractorID.Bytes()).Row().Scan(&approval, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("contractor", contractorID.String())
	}
	if err != nil {
		return nil, err
	}
	if approval != contractor.Approved.String() {
		return nil, contractor.ErrNotApproved
	}
	origin, err := kernel.NewOptionalGeoPoint(lat, lng)
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+jobViewColumns+jobViewFrom+`
		WHERE j.status = ?
		ORDER BY j.created_at, j.id
	`, job.Pending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]JobView, 0)
	for rows.Next() {
		v, scanErr := scanJobView(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		pending = append(pending, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	radius := query.RadiusKm()
	if radius == 0 {
		radius = h.defaultRadiusKm
	}
	ranked := services.RankByDistance(origin, radius, pending, JobView.Location)

	out := make([]AvailableJob, 0, len(ranked))
	for _, r := range ranked {
		item := AvailableJob{JobView: r.Item}
		if r.DistanceKm != nil {
			d := math.Round(*r.DistanceKm*100) / 100
			item.DistanceKm = &d
		}
		out = append(out, item)
	}
	return out, nil
}
