package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/Payphone-Digital/addressbook/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers a plain-text message to a single recipient
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender dials the configured server for every message
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg, err := s.buildMessage(to, subject, body)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.timeout()),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	if s.cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.SenderEmail); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.cfg.SenderEmail, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (s *SMTPSender) timeout() time.Duration {
	if s.cfg.Timeout > 0 {
		return s.cfg.Timeout
	}
	return 10 * time.Second
}

// LogSender stands in for SMTP when mail is disabled. The body is logged at
// debug level so a reset token can be picked up from the logs in development.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("Mail disabled, message not sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	s.logger.Debug("Mail body", zap.String("to", to), zap.String("body", body))
	return nil
}
