package queries

import (
	"context"

	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetJobQueryHandler struct {
	db *gorm.DB
}

func NewGetJobQueryHandler(db *gorm.DB) GetJobQueryHandler {
	return GetJobQueryHandler{db: db}
}

func (h GetJobQueryHandler) Handle(ctx context.Context, query GetJobQuery) (GetJobQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+jobViewColumns+`,
			c.id,
			du.name,
			du.phone,
			c.rating,
			c.truck_type,
			c.lat,
			c.lng
		`+jobViewFrom+`
		LEFT JOIN contractors c ON c.id = j.driver_id
		LEFT JOIN users du ON du.id = c.user_id
		WHERE j.id = ?
	`, query.JobID().Bytes()).Rows()
	if err != nil {
		return GetJobQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetJobQueryResponse{}, err
		}
		return GetJobQueryResponse{}, errs.NewObjectNotFoundError("job", query.JobID().String())
	}

	var (
		driverID             uuid.NullUUID
		name, phone          *string
		rating               *float64
		truckType            *string
		driverLat, driverLng *float64
	)
	view, err := scanJobView(rows, &driverID, &name, &phone, &rating, &truckType, &driverLat, &driverLng)
	if err != nil {
		return GetJobQueryResponse{}, err
	}
	if err = canReadJob(query.Actor(), view); err != nil {
		return GetJobQueryResponse{}, err
	}

	resp := GetJobQueryResponse{JobView: view}
	if driverID.Valid {
		id, idErr := optionalUUID(driverID)
		if idErr != nil {
			return GetJobQueryResponse{}, idErr
		}
		resp.Driver = &DriverSummary{
			ID:        *id,
			Name:      deref(name),
			Phone:     deref(phone),
			Rating:    derefFloat(rating),
			TruckType: deref(truckType),
			Lat:       driverLat,
			Lng:       driverLng,
		}
	}
	return resp, rows.Err()
}

func canReadJob(actor services.Actor, v JobView) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.UserID.IsEqual(v.CustomerID):
		return nil
	case actor.ContractorID != nil && v.DriverID != nil && actor.ContractorID.IsEqual(*v.DriverID):
		return nil
	case actor.ContractorID != nil && v.OperatorID != nil && actor.ContractorID.IsEqual(*v.OperatorID):
		return nil
	}
	return errs.NewForbiddenError("read job", "not a party to this job")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
