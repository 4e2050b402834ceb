package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// JobView is the persisted job record as clients see it, with the payment
// summary when one exists.
type JobView struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	DriverID   *kernel.UUID
	OperatorID *kernel.UUID
	Status     job.Status

	Address string
	Lat     *float64
	Lng     *float64
	Items   []job.LineItem
	Notes   string

	Photos       []string
	BeforePhotos []string
	AfterPhotos  []string

	ScheduledAt *time.Time
	DelegatedAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	BasePrice        kernel.Money
	ItemTotal        kernel.Money
	VolumeAdjustment kernel.Money
	SurgeMultiplier  float64
	ServiceFee       kernel.Money
	TotalPrice       kernel.Money

	CreatedAt time.Time
	UpdatedAt time.Time

	Payment *PaymentSummary
}

// Location returns the job coordinates, nil when the job has none.
func (v JobView) Location() *kernel.GeoPoint {
	p, err := kernel.NewOptionalGeoPoint(v.Lat, v.Lng)
	if err != nil {
		return nil
	}
	return p
}

type PaymentSummary struct {
	ID     kernel.UUID
	Amount kernel.Money
	Status payment.Status
	Tip    kernel.Money
}

// jobViewColumns must stay in step with scanJobView. The jobs table is j and
// the payments table p.
const jobViewColumns = `
	j.id, j.customer_id, j.driver_id, j.operator_id, j.status,
	j.address, j.lat, j.lng, j.items, j.notes,
	j.photos, j.before_photos, j.after_photos,
	j.scheduled_at, j.delegated_at, j.started_at, j.completed_at,
	j.base_price, j.item_total, j.volume_adjustment, j.surge_multiplier, j.service_fee, j.total_price,
	j.created_at, j.updated_at,
	p.id, p.amount, p.status, p.tip`

const jobViewFrom = `
	FROM jobs j
	LEFT JOIN payments p ON p.job_id = j.id`

// scanJobView scans jobViewColumns followed by extra destinations.
func scanJobView(rows *sql.Rows, extra ...any) (JobView, error) {
	var (
		v                            JobView
		id, customerID               uuid.UUID
		driverID, operatorID         uuid.NullUUID
		status                       string
		items                        []byte
		photos, before, after        pq.StringArray
		paymentID                    uuid.NullUUID
		paymentAmount, paymentTip    sql.NullInt64
		paymentStatus                sql.NullString
		base, itemTotal, volume, fee int64
		total                        int64
	)

	dest := []any{
		&id, &customerID, &driverID, &operatorID, &status,
		&v.Address, &v.Lat, &v.Lng, &items, &v.Notes,
		&photos, &before, &after,
		&v.ScheduledAt, &v.DelegatedAt, &v.StartedAt, &v.CompletedAt,
		&base, &itemTotal, &volume, &v.SurgeMultiplier, &fee, &total,
		&v.CreatedAt, &v.UpdatedAt,
		&paymentID, &paymentAmount, &paymentStatus, &paymentTip,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return JobView{}, err
	}

	var err error
	if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return JobView{}, err
	}
	if v.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return JobView{}, err
	}
	if v.DriverID, err = optionalUUID(driverID); err != nil {
		return JobView{}, err
	}
	if v.OperatorID, err = optionalUUID(operatorID); err != nil {
		return JobView{}, err
	}
	if v.Status, err = job.ParseStatus(status); err != nil {
		return JobView{}, err
	}
	if len(items) > 0 {
		if err = json.Unmarshal(items, &v.Items); err != nil {
			return JobView{}, err
		}
	}

	v.Photos = []string(photos)
	v.BeforePhotos = []string(before)
	v.AfterPhotos = []string(after)
	v.BasePrice = kernel.Money(base)
	v.ItemTotal = kernel.Money(itemTotal)
	v.VolumeAdjustment = kernel.Money(volume)
	v.ServiceFee = kernel.Money(fee)
	v.TotalPrice = kernel.Money(total)

	if paymentID.Valid {
		pid, idErr := kernel.UUIDFromBytes(paymentID.UUID[:])
		if idErr != nil {
			return JobView{}, idErr
		}
		ps, statusErr := payment.ParseStatus(paymentStatus.String)
		if statusErr != nil {
			return JobView{}, statusErr
		}
		v.Payment = &PaymentSummary{
			ID:     pid,
			Amount: kernel.Money(paymentAmount.Int64),
			Status: ps,
			Tip:    kernel.Money(paymentTip.Int64),
		}
	}
	return v, nil
}

func optionalUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	u, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// listJobViews pages through the jobs matching where, newest first.
func listJobViews(ctx context.Context, db *gorm.DB, where string, args []any, p Pagination) (Page[JobView], error) {
	var total int64
	if err := db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM jobs j WHERE `+where, args...).Row().Scan(&total); err != nil {
		return Page[JobView]{}, err
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT `+jobViewColumns+jobViewFrom+`
		WHERE `+where+`
		ORDER BY j.created_at DESC, j.id
		LIMIT ? OFFSET ?
	`, append(args, p.PerPage, p.offset())...).Rows()
	if err != nil {
		return Page[JobView]{}, err
	}
	defer rows.Close()

	views := make([]JobView, 0, p.PerPage)
	for rows.Next() {
		v, scanErr := scanJobView(rows)
		if scanErr != nil {
			return Page[JobView]{}, scanErr
		}
		views = append(views, v)
	}
	if err = rows.Err(); err != nil {
		return Page[JobView]{}, err
	}
	return newPage(views, total, p), nil
}
