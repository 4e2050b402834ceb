package dispatch

import (
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
)

const (
	AdminRoom = "admin"

	EventJobNew            = "job:new"
	EventJobStatus         = "job:status"
	EventJobAssigned       = "job:assigned"
	EventJobDriverAssigned = "job:driver-assigned"
	EventDriverLocation    = "driver:location"
	EventAdminJobStatus    = "admin:job-status"
	EventAdminLocation     = "admin:contractor-location"
)

// DriverRoom is the private room of a contractor.
func DriverRoom(contractorID kernel.UUID) string {
	return "driver:" + contractorID.String()
}

// JobRoom is the room customers and drivers join to follow a job.
func JobRoom(jobID kernel.UUID) string {
	return jobID.String()
}

// LiveEvent is one live push.
type LiveEvent struct {
	Room    string
	Event   string
	Payload map[string]any
}

type SMS struct {
	To   string
	Body string
}

type Email struct {
	To      string
	Subject string
	HTML    string
}

// Batch collects side effects inside a unit of work. Nothing is sent until
// the batch is flushed after commit; a rolled back batch is dropped.
type Batch struct {
	Live   []LiveEvent
	SMS    []SMS
	Emails []Email
}

func NewBatch() *Batch {
	return &Batch{}
}

func (b *Batch) Emit(room, event string, payload map[string]any) {
	b.Live = append(b.Live, LiveEvent{Room: room, Event: event, Payload: payload})
}

// Text queues an SMS; empty numbers are skipped.
func (b *Batch) Text(to, body string) {
	if to == "" {
		return
	}
	b.SMS = append(b.SMS, SMS{To: to, Body: body})
}

// Mail queues an email; empty addresses are skipped.
func (b *Batch) Mail(to, subject, html string) {
	if to == "" {
		return
	}
	b.Emails = append(b.Emails, Email{To: to, Subject: subject, HTML: html})
}

func (b *Batch) IsEmpty() bool {
	return len(b.Live) == 0 && len(b.SMS) == 0 && len(b.Emails) == 0
}

// JobStatus broadcasts the job's current status to its room and to the
// admin dashboard.
func (b *Batch) JobStatus(j *job.Job, extra map[string]any) {
	payload := map[string]any{"job_id": j.ID().String(), "status": j.Status().String()}
	for k, v := range extra {
		payload[k] = v
	}
	b.Emit(JobRoom(j.ID()), EventJobStatus, payload)
	b.Emit(AdminRoom, EventAdminJobStatus, payload)
}

// NewJob offers the job to one contractor.
func (b *Batch) NewJob(contractorID kernel.UUID, j *job.Job, distanceKm *float64) {
	payload := JobPayload(j)
	if distanceKm != nil {
		payload["distance_km"] = *distanceKm
	}
	b.Emit(DriverRoom(contractorID), EventJobNew, payload)
}

// JobAssigned tells the contractor about the assignment and the job room
// about the driver.
func (b *Batch) JobAssigned(contractorID kernel.UUID, j *job.Job) {
	b.Emit(DriverRoom(contractorID), EventJobAssigned, JobPayload(j))
	b.Emit(JobRoom(j.ID()), EventJobDriverAssigned, map[string]any{
		"job_id":    j.ID().String(),
		"driver_id": contractorID.String(),
		"status":    j.Status().String(),
	})
}

// DriverLocation re-broadcasts a location ping to the active job room, if
// any, and to the admin map.
func (b *Batch) DriverLocation(contractorID kernel.UUID, lat, lng float64, activeJob *kernel.UUID) {
	payload := map[string]any{"contractor_id": contractorID.String(), "lat": lat, "lng": lng}
	if activeJob != nil {
		b.Emit(JobRoom(*activeJob), EventDriverLocation, payload)
	}
	b.Emit(AdminRoom, EventAdminLocation, payload)
}

// JobPayload is the live representation of a job offer.
func JobPayload(j *job.Job) map[string]any {
	payload := map[string]any{
		"job_id":      j.ID().String(),
		"status":      j.Status().String(),
		"address":     j.Address(),
		"total_price": j.Price().Total().Float64(),
		"items":       j.Items(),
	}
	if loc := j.Location(); loc != nil {
		payload["lat"] = loc.Lat()
		payload["lng"] = loc.Lng()
	}
	if s := j.ScheduledAt(); s != nil {
		payload["scheduled_at"] = s.UTC()
	}
	return payload
}
