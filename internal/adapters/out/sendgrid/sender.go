// Package sendgrid delivers transactional email through the SendGrid v3 API.
package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"junkos/internal/core/ports"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

var _ ports.EmailSender = (*Sender)(nil)

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Sender sends HTML mail from one address. Without an API key it only logs.
type Sender struct {
	client mailClient
	from   *mail.Email
	logger *zap.Logger
}

func NewSender(apiKey, fromAddress, fromName string, logger *zap.Logger) *Sender {
	var client mailClient
	if apiKey != "" {
		client = sendgrid.NewSendClient(apiKey)
	}
	return newSender(client, fromAddress, fromName, logger)
}

func newSender(client mailClient, fromAddress, fromName string, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		client: client,
		from:   mail.NewEmail(fromName, fromAddress),
		logger: logger.With(zap.String("component", "sendgrid")),
	}
}

// SendEmail returns the provider message id when the response carries one.
func (s *Sender) SendEmail(ctx context.Context, to, subject, html string) (string, error) {
	if to == "" {
		return "", errors.New("sendgrid: recipient is required")
	}
	if s.client == nil {
		preview := html
		if len(preview) > 120 {
			preview = preview[:120]
		}
		s.logger.Info("development email",
			zap.String("to", to), zap.String("subject", subject), zap.String("preview", preview))
		return "", nil
	}

	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), "", html)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("sendgrid: send email: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("sendgrid: send email: status %d: %s", resp.StatusCode, resp.Body)
	}

	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}
