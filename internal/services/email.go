package services

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
)

// Notifier mails customers about their inquiries.
type Notifier interface {
	SendConfirmation(ctx context.Context, inq *domain.Inquiry) error
	SendResponse(ctx context.Context, inq *domain.Inquiry, resp *domain.InquiryResponse) error
}

// NewNotifier returns the notifier for the configured provider. Disabled
// email and the console provider only log. A configured alert topic adds
// SNS alerts for urgent inquiries.
func NewNotifier(ctx context.Context, cfg *config.EmailConfig, log *zap.Logger) (Notifier, error) {
	var notifier Notifier = NewEmailService(cfg, log)
	if cfg.Enabled && strings.EqualFold(cfg.Provider, "ses") {
		ses, err := NewSESNotifierFromConfig(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		notifier = ses
	}
	if cfg.AlertTopicARN != "" {
		return NewAlertingNotifierFromConfig(ctx, notifier, cfg, log)
	}
	return notifier, nil
}

// EmailService handles sending emails over SMTP
type EmailService struct {
	cfg          *config.EmailConfig
	log          *zap.Logger
	confirmation EmailTemplate
	response     EmailTemplate
	sendMail     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig, log *zap.Logger) *EmailService {
	return &EmailService{
		cfg:          cfg,
		log:          log.Named("email"),
		confirmation: ConfirmationTemplate(cfg.ConfirmationTemplate),
		response:     ResponseTemplate(cfg.ResponseTemplate),
		sendMail:     smtp.SendMail,
	}
}

// SendConfirmation tells the customer their inquiry was received
func (s *EmailService) SendConfirmation(_ context.Context, inq *domain.Inquiry) error {
	subject, htmlBody, textBody := s.confirmation.Render(ConfirmationData(inq))
	return s.SendHTMLEmail(inq.Email, subject, htmlBody, textBody)
}

// SendResponse mails a manager's response to the customer
func (s *EmailService) SendResponse(_ context.Context, inq *domain.Inquiry, resp *domain.InquiryResponse) error {
	subject, htmlBody, textBody := s.response.Render(ResponseData(inq, resp))
	return s.SendHTMLEmail(inq.Email, subject, htmlBody, textBody)
}

// SendHTMLEmail sends an HTML email with plain text fallback
func (s *EmailService) SendHTMLEmail(to, subject, htmlBody, textBody string) error {
	if !s.IsEnabled() {
		s.log.Info("email not sent, delivery disabled", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	// Validate configuration
	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}

	// Set up authentication
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	msg := s.buildMessage(to, subject, htmlBody, textBody)
	if err := s.sendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *EmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.FromEmail)
	}

	const boundary = "----=_InquiryDeskPart"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(textBody + "\r\n")

	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(htmlBody + "\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// IsEnabled returns whether SMTP delivery is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled && strings.EqualFold(s.cfg.Provider, "smtp")
}
