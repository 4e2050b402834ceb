package ports

import (
	"context"
	"time"

	"junkos/internal/core/domain/model/kernel"
)

// PaymentIntent is the provider handle of a pending charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// ProviderEventKind enumerates the provider events the core reacts to.
type ProviderEventKind string

const (
	EventPaymentSucceeded ProviderEventKind = "payment_succeeded"
	EventPaymentFailed    ProviderEventKind = "payment_failed"
	EventChargeRefunded   ProviderEventKind = "charge_refunded"
	EventDisputeCreated   ProviderEventKind = "dispute_created"
	EventIgnored          ProviderEventKind = "ignored"
)

// ProviderEvent is a verified inbound webhook event.
type ProviderEvent struct {
	ID             string
	Kind           ProviderEventKind
	IntentID       string
	AmountRefunded kernel.Money
}

// PaymentGateway is the payment provider.
type PaymentGateway interface {
	// CreatePaymentIntent opens a charge of amount cents.
	CreatePaymentIntent(ctx context.Context, amount kernel.Money, currency string, metadata map[string]string) (PaymentIntent, error)

	// IntentSucceeded asks the provider whether the intent was charged.
	IntentSucceeded(ctx context.Context, intentID string) (bool, error)

	// CreateTransfer moves amount cents to a connected account and returns
	// the transfer id.
	CreateTransfer(ctx context.Context, amount kernel.Money, destination string, metadata map[string]string) (string, error)

	// ParseEvent verifies the signature and decodes the webhook payload.
	ParseEvent(payload []byte, signature string) (ProviderEvent, error)
}

// SMSSender delivers text messages. Callers treat failures as log-only.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// EmailSender delivers transactional email. Callers treat failures as log-only.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) (string, error)
}

// LiveChannel pushes events to subscribers of a room: a job id, "admin", or
// "driver:<contractor id>".
type LiveChannel interface {
	Emit(ctx context.Context, room, event string, payload any) error
}

// KVStore is a shared key-value store with expiry.
type KVStore interface {
	// Get reports found=false for a missing or expired key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX stores the value only when the key is absent and reports
	// whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// PhotoStorage issues upload URLs for job photos.
type PhotoStorage interface {
	// PresignUpload returns a URL the client can PUT the photo to, and the
	// public URL the photo will have.
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (uploadURL, publicURL string, err error)
}

// IdentityVerifier resolves a bearer credential to a user id.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (kernel.UUID, error)
}

// Clock abstracts time for handlers and jobs.
type Clock interface {
	Now() time.Time
}

// SystemClock is the UTC wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
