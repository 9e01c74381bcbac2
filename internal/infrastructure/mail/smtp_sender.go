package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"emailcomposer/internal/domain/entity"
	"emailcomposer/internal/domain/repository"
	"emailcomposer/internal/infrastructure/metrics"
)

var (
	ErrNoSender    = errors.New("mail: sender address not configured")
	ErrNoRecipient = errors.New("mail: at least one recipient is required")
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	InsecureTLS bool
	Timeout     time.Duration
}

// dialer is the part of *gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	cfg    SMTPConfig
	dialer dialer
	logger *slog.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) repository.MailSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true} //nolint:gosec // SMTP_INSECURE_TLS
	}
	return newSMTPSender(cfg, d, logger)
}

func newSMTPSender(cfg SMTPConfig, d dialer, logger *slog.Logger) *SMTPSender {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPSender{cfg: cfg, dialer: d, logger: logger}
}

// Send submits one message. gomail has no context support, so the dial runs in
// a goroutine and ctx only bounds how long the caller waits for it.
func (s *SMTPSender) Send(ctx context.Context, msg entity.Message) error {
	if msg.From == "" {
		return ErrNoSender
	}
	if len(msg.To) == 0 {
		return ErrNoRecipient
	}

	m := buildMessage(msg)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		metrics.IncMailSend("failed")
		metrics.IncError("mail", "timeout")
		go s.logLateResult(msg, done)
		return fmt.Errorf("mail: send to %s: %w", msg.ToHeader(), ctx.Err())
	case err := <-done:
		if err != nil {
			metrics.IncMailSend("failed")
			metrics.IncError("mail", "dial_and_send")
			return fmt.Errorf("mail: send to %s: %w", msg.ToHeader(), err)
		}
	}

	metrics.IncMailSend("sent")
	metrics.AddMailRecipients(len(msg.To))
	s.logger.Debug("mail submitted", "to", msg.ToHeader(), "subject", msg.Subject)
	return nil
}

// logLateResult waits for a send the caller stopped waiting for. The caller
// already got an error, so a message delivered here may be sent twice on retry.
func (s *SMTPSender) logLateResult(msg entity.Message, done <-chan error) {
	if err := <-done; err != nil {
		s.logger.Warn("mail send failed after timeout", "to", msg.ToHeader(), "err", err)
		return
	}
	metrics.IncMailSend("late")
	s.logger.Warn("mail delivered after timeout", "to", msg.ToHeader(), "subject", msg.Subject)
}

func buildMessage(msg entity.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	// One value per address; gomail parses each value as a single address
	// and renders the header as a comma-separated list.
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}
