// Package stripe implements ports.PaymentGateway on Stripe.
//
// Without a secret key the gateway runs in development mode: intents and
// transfers get local ids and every intent counts as charged. Without a
// webhook secret events are decoded unverified.
package stripe

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/ports"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// IdempotencyKeyMetadata is the metadata key lifted into the request's
// Idempotency-Key header instead of being stored on the object.
const IdempotencyKeyMetadata = "idempotency_key"

const devIntentPrefix = "pi_dev_"

// ErrWebhookSecretMissing rejects webhooks when a live account is configured
// without a signing secret.
var ErrWebhookSecretMissing = errors.New("stripe: webhook secret is not configured")

var _ ports.PaymentGateway = (*Gateway)(nil)

type Gateway struct {
	api           *client.API
	webhookSecret string
	logger        *zap.Logger
}

func NewGateway(secretKey, webhookSecret string, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gateway{
		webhookSecret: webhookSecret,
		logger:        logger.With(zap.String("component", "stripe")),
	}
	if secretKey != "" {
		g.api = &client.API{}
		g.api.Init(secretKey, nil)
	} else {
		g.logger.Warn("no stripe secret key, payments run in development mode")
	}
	return g
}

// DevMode reports whether no provider account is configured.
func (g *Gateway) DevMode() bool {
	return g.api == nil
}

func (g *Gateway) CreatePaymentIntent(
	ctx context.Context,
	amount kernel.Money,
	currency string,
	metadata map[string]string,
) (ports.PaymentIntent, error) {
	if amount <= 0 {
		return ports.PaymentIntent{}, fmt.Errorf("stripe: amount must be positive, got %d", amount.Cents())
	}
	if g.DevMode() {
		id := devIntentPrefix + randomHex(4)
		return ports.PaymentIntent{ID: id, ClientSecret: id + "_secret_dev"}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Cents()),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	applyMetadata(&params.Params, metadata)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return ports.PaymentIntent{}, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return ports.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *Gateway) IntentSucceeded(ctx context.Context, intentID string) (bool, error) {
	if g.DevMode() {
		return strings.HasPrefix(intentID, devIntentPrefix), nil
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return false, fmt.Errorf("stripe: get payment intent %s: %w", intentID, err)
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}

func (g *Gateway) CreateTransfer(
	ctx context.Context,
	amount kernel.Money,
	destination string,
	metadata map[string]string,
) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("stripe: amount must be positive, got %d", amount.Cents())
	}
	if destination == "" {
		return "", errors.New("stripe: transfer destination is required")
	}
	if g.DevMode() {
		id := "tr_dev_" + randomHex(6)
		g.logger.Info("development transfer",
			zap.String("transfer_id", id),
			zap.String("destination", destination),
			zap.Int64("amount", amount.Cents()))
		return id, nil
	}

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount.Cents()),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(destination),
	}
	params.Context = ctx
	applyMetadata(&params.Params, metadata)

	tr, err := g.api.Transfers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create transfer to %s: %w", destination, err)
	}
	return tr.ID, nil
}

// ParseEvent verifies and decodes a webhook. Unsigned events are only
// accepted in development mode.
func (g *Gateway) ParseEvent(payload []byte, signature string) (ports.ProviderEvent, error) {
	var (
		event stripe.Event
		err   error
	)
	if g.webhookSecret != "" {
		event, err = webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return ports.ProviderEvent{}, fmt.Errorf("stripe: verify webhook: %w", err)
		}
	} else {
		if !g.DevMode() {
			return ports.ProviderEvent{}, ErrWebhookSecretMissing
		}
		g.logger.Warn("webhook secret not set, accepting unverified event")
		if err = json.Unmarshal(payload, &event); err != nil {
			return ports.ProviderEvent{}, fmt.Errorf("stripe: decode webhook: %w", err)
		}
	}

	if event.ID == "" {
		return ports.ProviderEvent{}, errors.New("stripe: event has no id")
	}
	return toProviderEvent(event)
}

func toProviderEvent(event stripe.Event) (ports.ProviderEvent, error) {
	out := ports.ProviderEvent{ID: event.ID, Kind: ports.EventIgnored}
	if event.Data == nil {
		return out, nil
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return ports.ProviderEvent{}, fmt.Errorf("stripe: decode payment intent: %w", err)
		}
		out.IntentID = pi.ID
		out.Kind = ports.EventPaymentSucceeded
		if event.Type == "payment_intent.payment_failed" {
			out.Kind = ports.EventPaymentFailed
		}

	case "charge.refunded":
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return ports.ProviderEvent{}, fmt.Errorf("stripe: decode charge: %w", err)
		}
		if ch.PaymentIntent != nil {
			out.IntentID = ch.PaymentIntent.ID
		}
		out.Kind = ports.EventChargeRefunded
		out.AmountRefunded = kernel.Money(ch.AmountRefunded)

	case "charge.dispute.created":
		var d stripe.Dispute
		if err := json.Unmarshal(event.Data.Raw, &d); err != nil {
			return ports.ProviderEvent{}, fmt.Errorf("stripe: decode dispute: %w", err)
		}
		if d.PaymentIntent != nil {
			out.IntentID = d.PaymentIntent.ID
		}
		out.Kind = ports.EventDisputeCreated
	}

	if out.Kind != ports.EventIgnored && out.IntentID == "" {
		out.Kind = ports.EventIgnored
	}
	return out, nil
}

func applyMetadata(params *stripe.Params, metadata map[string]string) {
	md := maps.Clone(metadata)
	if key, ok := md[IdempotencyKeyMetadata]; ok {
		params.SetIdempotencyKey(key)
		delete(md, IdempotencyKeyMetadata)
	}
	for k, v := range md {
		params.AddMetadata(k, v)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
