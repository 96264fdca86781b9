package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ResendSender implements Sender using Resend.
type ResendSender struct {
	client    *resend.Client
	fromName  string
	fromEmail string
	logger    zerolog.Logger
}

// MailConfig is the slice of configuration the sender needs.
type MailConfig interface {
	GetResendAPIKey() string
	GetMailFromName() string
	GetMailFromEmail() string
}

func NewResendSender(cfg MailConfig, logger zerolog.Logger) (*ResendSender, error) {
	if cfg.GetResendAPIKey() == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if cfg.GetMailFromEmail() == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &ResendSender{
		client:    resend.NewClient(cfg.GetResendAPIKey()),
		fromName:  cfg.GetMailFromName(),
		fromEmail: cfg.GetMailFromEmail(),
		logger:    logger,
	}, nil
}

func (s *ResendSender) Send(ctx context.Context, recipient string, template TemplateName, data TemplateData) error {
	subject, html, err := render(template, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail),
		To:      []string{recipient},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.logger.Error().Err(err).Str("recipient", recipient).Str("template", string(template)).Msg("email send failed")
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}

	s.logger.Info().Str("recipient", recipient).Str("template", string(template)).Str("id", sent.Id).Msg("email sent")
	return nil
}

// LogSender logs instead of delivering. Development fallback when no Resend
// key is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, recipient string, template TemplateName, data TemplateData) error {
	s.logger.Info().
		Str("recipient", recipient).
		Str("template", string(template)).
		Interface("data", data).
		Msg("email delivery skipped (no mail provider configured)")
	return nil
}
