package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
)

// SNSAPI is the part of the SNS client used for manager alerts.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// AlertingNotifier wraps a Notifier and additionally publishes every new
// high urgency inquiry to an SNS topic the managers subscribe to.
type AlertingNotifier struct {
	Notifier
	client SNSAPI
	topic  string
	log    *zap.Logger
}

// NewAlertingNotifier wraps next.
func NewAlertingNotifier(next Notifier, client SNSAPI, topic string, log *zap.Logger) *AlertingNotifier {
	return &AlertingNotifier{Notifier: next, client: client, topic: topic, log: log.Named("alerts")}
}

// NewAlertingNotifierFromConfig creates an SNS client for the configured
// region.
func NewAlertingNotifierFromConfig(ctx context.Context, next Notifier, cfg *config.EmailConfig, log *zap.Logger) (*AlertingNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewAlertingNotifier(next, sns.NewFromConfig(awsCfg), cfg.AlertTopicARN, log), nil
}

// SendConfirmation mails the customer and alerts the managers when the
// inquiry is urgent. The alert goes out even if the mail fails.
func (n *AlertingNotifier) SendConfirmation(ctx context.Context, inq *domain.Inquiry) error {
	mailErr := n.Notifier.SendConfirmation(ctx, inq)
	if inq.Urgency == domain.UrgencyHigh {
		if err := n.alert(ctx, inq); err != nil {
			n.log.Warn("alert failed", zap.Uint("id", inq.ID), zap.Error(err))
		}
	}
	return mailErr
}

func (n *AlertingNotifier) alert(ctx context.Context, inq *domain.Inquiry) error {
	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topic),
		Subject:  aws.String(fmt.Sprintf("High urgency inquiry #%d", inq.ID)),
		Message: aws.String(fmt.Sprintf("%s <%s>\nCategory: %s\n\n%s",
			inq.Name, inq.Email, inq.Category, inq.Summary)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"category": {DataType: aws.String("String"), StringValue: aws.String(string(inq.Category))},
			"urgency":  {DataType: aws.String("String"), StringValue: aws.String(string(inq.Urgency))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	n.log.Info("alert published", zap.Uint("id", inq.ID), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
