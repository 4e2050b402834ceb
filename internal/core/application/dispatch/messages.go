package dispatch

import (
	"bytes"
	"fmt"
	"html/template"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
)

var confirmationEmail = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 40px 20px;">
  <h1 style="color: #2d8a6e;">JunkOS</h1>
  <h2>Booking Confirmed!</h2>
  <p>Hi {{.Name}},</p>
  <p>Your junk removal is scheduled. Here are your details:</p>
  <table style="width: 100%;">
    <tr><td>Booking ID</td><td style="text-align: right;">#{{.ShortID}}</td></tr>
    <tr><td>Address</td><td style="text-align: right;">{{.Address}}</td></tr>
    <tr><td>Date</td><td style="text-align: right;">{{.Date}}</td></tr>
    <tr><td>Time</td><td style="text-align: right;">{{.Time}}</td></tr>
    <tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>{{.Total}}</strong></td></tr>
  </table>
  <p>We'll send you a reminder 24 hours before your appointment.</p>
</div>`))

// ShortID is the customer facing booking reference.
func ShortID(id kernel.UUID) string {
	return id.String()[:8]
}

// BookingSMS is the text sent to the customer right after booking.
func BookingSMS(j *job.Job) string {
	return fmt.Sprintf("JunkOS Booking Confirmed!\nBooking: #%s\nDate: %s\nAddress: %s\n\n"+
		"We'll send a reminder 24h before your pickup.",
		ShortID(j.ID()), scheduledDate(j), j.Address())
}

// ConfirmationEmail renders the email sent once the customer's payment
// succeeded.
func ConfirmationEmail(customerName string, j *job.Job, amount kernel.Money) (subject, html string, err error) {
	if customerName == "" {
		customerName = "there"
	}
	scheduledTime := ""
	if s := j.ScheduledAt(); s != nil {
		scheduledTime = s.UTC().Format("15:04")
	}

	var buf bytes.Buffer
	err = confirmationEmail.Execute(&buf, map[string]string{
		"Name":    customerName,
		"ShortID": ShortID(j.ID()),
		"Address": j.Address(),
		"Date":    scheduledDate(j),
		"Time":    scheduledTime,
		"Total":   amount.String(),
	})
	if err != nil {
		return "", "", err
	}
	return "Your JunkOS Booking is Confirmed! #" + ShortID(j.ID()), buf.String(), nil
}

func scheduledDate(j *job.Job) string {
	if s := j.ScheduledAt(); s != nil {
		return s.UTC().Format("2006-01-02")
	}
	return "TBD"
}
