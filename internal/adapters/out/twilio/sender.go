// Package twilio sends SMS through the Twilio Messaging API.
package twilio

import (
	"context"
	"errors"
	"fmt"

	"junkos/internal/core/ports"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

var _ ports.SMSSender = (*Sender)(nil)

type messageAPI interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
}

// Sender sends from a single configured number. Without credentials it only
// logs the message.
type Sender struct {
	api    messageAPI
	from   string
	logger *zap.Logger
}

func NewSender(accountSID, authToken, from string, logger *zap.Logger) *Sender {
	var messages messageAPI
	if accountSID != "" && authToken != "" && from != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
		messages = client.Api
	}
	return newSender(messages, from, logger)
}

func newSender(messages messageAPI, from string, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		api:    messages,
		from:   from,
		logger: logger.With(zap.String("component", "twilio")),
	}
}

func (s *Sender) SendSMS(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", errors.New("twilio: recipient is required")
	}
	if s.api == nil {
		s.logger.Info("development sms", zap.String("to", to), zap.String("body", body))
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: send sms: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
