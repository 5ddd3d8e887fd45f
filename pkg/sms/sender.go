package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// ErrSMSDisabled signals that SMS delivery is disabled via configuration.
var ErrSMSDisabled = errors.New("sms: delivery disabled")

// Sender delivers text messages to phone numbers.
type Sender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// SNSSettings configure the AWS SNS sender.
type SNSSettings struct {
	Enabled  bool
	Region   string
	SenderID string
}

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type snsSender struct {
	client   publisher
	senderID string
}

type disabledSender struct{}

func (disabledSender) SendSMS(context.Context, string, string) error {
	return ErrSMSDisabled
}

// NewSender returns an SNS-backed sender, or a sender that always reports
// ErrSMSDisabled when SNS is switched off.
func NewSender(ctx context.Context, cfg SNSSettings) (Sender, error) {
	if !cfg.Enabled {
		return disabledSender{}, nil
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, errors.New("sms: region is required when enabled")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("sms: load aws config: %w", err)
	}
	return &snsSender{client: sns.NewFromConfig(awsCfg), senderID: cfg.SenderID}, nil
}

func (s *snsSender) SendSMS(ctx context.Context, to, message string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("sms: recipient is required")
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if s.senderID != "" {
		input.MessageAttributes = senderAttributes(s.senderID)
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sms: publish: %w", err)
	}
	return nil
}
