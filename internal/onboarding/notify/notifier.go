// Package notify sends the post-submission welcome email and the
// internal platform event.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/onboarding/profile"
)

// SESService abstracts the SES client for testing.
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SNSService abstracts the SNS client for testing.
type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier emails the first founder a welcome message and publishes a
// startup-created event for downstream consumers.
type Notifier struct {
	ses      SESService
	sns      SNSService
	sender   string
	topicARN string
	logger   logger.Logger
}

func NewNotifier(sesSvc SESService, snsSvc SNSService, sender, topicARN string, log logger.Logger) *Notifier {
	return &Notifier{
		ses:      sesSvc,
		sns:      snsSvc,
		sender:   sender,
		topicARN: topicARN,
		logger:   log,
	}
}

func (n *Notifier) Name() string { return "notify" }

func (n *Notifier) AfterCreate(ctx context.Context, p *profile.StoredProfile) error {
	if err := n.sendWelcomeEmail(ctx, p); err != nil {
		return err
	}
	return n.publishCreatedEvent(ctx, p)
}

func (n *Notifier) sendWelcomeEmail(ctx context.Context, p *profile.StoredProfile) error {
	if n.ses == nil || len(p.Founders) == 0 {
		return nil
	}

	recipient := p.Founders[0].Email
	subject := fmt.Sprintf("Welcome to the platform, %s", p.Name)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour startup profile for %s has been created. "+
			"Investors can now discover you in the startup directory.\n",
		p.Founders[0].Name, p.Name)

	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	}

	if _, err := n.ses.SendEmail(ctx, input); err != nil {
		return errors.NewNotificationSendFailedError("welcome_email", err)
	}

	n.logger.WithFields(map[string]interface{}{
		"startupId": p.ID,
		"recipient": recipient,
	}).Info("Welcome email sent", nil)
	return nil
}

func (n *Notifier) publishCreatedEvent(ctx context.Context, p *profile.StoredProfile) error {
	if n.sns == nil || n.topicARN == "" {
		return nil
	}

	event := map[string]interface{}{
		"event":      "startup.created",
		"startupId":  p.ID,
		"userId":     p.UserID,
		"name":       p.Name,
		"industry":   p.Industry,
		"stage":      p.Stage,
		"createdAt":  p.CreatedAt,
		"founders":   len(p.Founders),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.NewNotificationSendFailedError("created_event", err)
	}

	input := &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(payload)),
	}
	if _, err := n.sns.Publish(ctx, input); err != nil {
		return errors.NewNotificationSendFailedError("created_event", err)
	}

	n.logger.WithFields(map[string]interface{}{
		"startupId": p.ID,
		"topicArn":  n.topicARN,
	}).Debug("Startup created event published", nil)
	return nil
}
