package services

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"

	"medadmit/internal/config"
	"medadmit/internal/logging"
)

// EmailService handles sending emails through SMTP or the Resend API
type EmailService struct {
	cfg    *config.EmailConfig
	resend *resend.Client
	log    *logrus.Entry
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg, log: logging.For("email")}
	if cfg.Provider == config.EmailProviderResend && cfg.ResendAPIKey != "" {
		s.resend = resend.NewClient(cfg.ResendAPIKey)
	}
	return s
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}

func (s *EmailService) from() string {
	if s.cfg.FromName != "" {
		return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}
	return s.cfg.FromEmail
}

// SendHTMLEmail sends an HTML email with plain text fallback
func (s *EmailService) SendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !s.cfg.Enabled {
		s.log.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email disabled, not sending")
		return nil
	}

	switch s.cfg.Provider {
	case config.EmailProviderResend:
		return s.sendResend(ctx, to, subject, htmlBody, textBody)
	default:
		return s.sendSMTP(to, subject, htmlBody, textBody)
	}
}

func (s *EmailService) sendResend(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if s.resend == nil {
		return fmt.Errorf("email service not properly configured: RESEND_API_KEY missing")
	}

	sent, err := s.resend.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from(),
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.WithField("message_id", sent.Id).Debug("Email sent via Resend")
	return nil
}

func (s *EmailService) sendSMTP(to, subject, htmlBody, textBody string) error {
	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	boundary := "----=_MedAdmitPart_7f3a9c"

	message := fmt.Sprintf("From: %s\r\n", s.from()) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary) +
		"\r\n" +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		textBody + "\r\n"

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			htmlBody + "\r\n"
	}
	message += fmt.Sprintf("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
