// Package sns sends transactional SMS through Amazon SNS.
package sns

import (
	"context"
	"errors"
	"fmt"

	"junkos/internal/core/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

const smsTypeAttribute = "AWS.SNS.SMS.SMSType"

var _ ports.SMSSender = (*Sender)(nil)

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Sender struct {
	client publisher
	logger *zap.Logger
}

// NewSender loads the default AWS credential chain for region.
func NewSender(ctx context.Context, region string, logger *zap.Logger) (*Sender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newSender(sns.NewFromConfig(cfg), logger), nil
}

func newSender(client publisher, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{client: client, logger: logger.With(zap.String("component", "sns"))}
}

func (s *Sender) SendSMS(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", errors.New("sns: recipient is required")
	}

	resp, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			smsTypeAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sns: publish sms: %w", err)
	}
	return aws.ToString(resp.MessageId), nil
}
