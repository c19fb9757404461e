package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
)

// SESAPI is the part of the SES client used for sending and template
// provisioning.
type SESAPI interface {
	SendTemplatedEmail(ctx context.Context, params *ses.SendTemplatedEmailInput, optFns ...func(*ses.Options)) (*ses.SendTemplatedEmailOutput, error)
	CreateTemplate(ctx context.Context, params *ses.CreateTemplateInput, optFns ...func(*ses.Options)) (*ses.CreateTemplateOutput, error)
	UpdateTemplate(ctx context.Context, params *ses.UpdateTemplateInput, optFns ...func(*ses.Options)) (*ses.UpdateTemplateOutput, error)
}

// NewSESClient loads AWS credentials the default way and creates an SES
// client for region.
func NewSESClient(ctx context.Context, region string) (*ses.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ses.NewFromConfig(awsCfg), nil
}

// SESNotifier sends templated mails through Amazon SES.
type SESNotifier struct {
	client       SESAPI
	sender       string
	confirmation string
	response     string
	log          *zap.Logger
}

// NewSESNotifier creates a notifier around an existing SES client.
func NewSESNotifier(client SESAPI, cfg *config.EmailConfig, log *zap.Logger) *SESNotifier {
	return &SESNotifier{
		client:       client,
		sender:       cfg.FromEmail,
		confirmation: cfg.ConfirmationTemplate,
		response:     cfg.ResponseTemplate,
		log:          log.Named("ses"),
	}
}

// NewSESNotifierFromConfig creates an SES client for the configured region.
func NewSESNotifierFromConfig(ctx context.Context, cfg *config.EmailConfig, log *zap.Logger) (*SESNotifier, error) {
	if cfg.FromEmail == "" {
		return nil, errors.New("SENDER_EMAIL must be set to send email through SES")
	}
	client, err := NewSESClient(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return NewSESNotifier(client, cfg, log), nil
}

func (n *SESNotifier) SendConfirmation(ctx context.Context, inq *domain.Inquiry) error {
	return n.send(ctx, inq.Email, n.confirmation, ConfirmationData(inq))
}

func (n *SESNotifier) SendResponse(ctx context.Context, inq *domain.Inquiry, resp *domain.InquiryResponse) error {
	return n.send(ctx, inq.Email, n.response, ResponseData(inq, resp))
}

func (n *SESNotifier) send(ctx context.Context, to, template string, data map[string]string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode template data: %w", err)
	}

	out, err := n.client.SendTemplatedEmail(ctx, &ses.SendTemplatedEmailInput{
		Source:       aws.String(n.sender),
		Destination:  &types.Destination{ToAddresses: []string{to}},
		Template:     aws.String(template),
		TemplateData: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("failed to send templated email %s: %w", template, err)
	}

	n.log.Info("email sent",
		zap.String("template", template),
		zap.String("to", to),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// TemplateResult reports what UpsertTemplate did.
type TemplateResult string

const (
	TemplateUpdated TemplateResult = "updated"
	TemplateCreated TemplateResult = "created"
)

// UpsertTemplate updates an SES template, creating it when it does not
// exist yet.
func UpsertTemplate(ctx context.Context, client SESAPI, t EmailTemplate) (TemplateResult, error) {
	tmpl := &types.Template{
		TemplateName: aws.String(t.Name),
		SubjectPart:  aws.String(t.Subject),
		HtmlPart:     aws.String(t.HTML),
		TextPart:     aws.String(t.Text),
	}

	_, err := client.UpdateTemplate(ctx, &ses.UpdateTemplateInput{Template: tmpl})
	if err == nil {
		return TemplateUpdated, nil
	}

	var missing *types.TemplateDoesNotExistException
	if !errors.As(err, &missing) {
		return "", fmt.Errorf("failed to update template %s: %w", t.Name, err)
	}

	if _, err := client.CreateTemplate(ctx, &ses.CreateTemplateInput{Template: tmpl}); err != nil {
		return "", fmt.Errorf("failed to create template %s: %w", t.Name, err)
	}
	return TemplateCreated, nil
}
