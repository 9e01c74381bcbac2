package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"emailcomposer/internal/domain/entity"
	"emailcomposer/internal/domain/repository"
)

var (
	ErrPromptRequired = errors.New("prompt is required")
	ErrMissingFields  = errors.New("missing required fields")
)

const (
	testSubject = "Test Email from AI Email Sender"
	testBody    = "This is a test email from your AI Email Sender app."
)

type EmailUsecase interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Send(ctx context.Context, req entity.SendRequest) error
	SendTest(ctx context.Context) (string, error)
}

var _ EmailUsecase = (*EmailService)(nil)

// EmailService drafts emails through the completion provider and sends them
// through the mail relay. It holds no per-request state.
type EmailService struct {
	llm    repository.LLMGenerator
	mailer repository.MailSender
	from   string
	logger *slog.Logger
}

func NewEmailService(
	llm repository.LLMGenerator,
	mailer repository.MailSender,
	from string,
	logger *slog.Logger,
) *EmailService {
	return &EmailService{
		llm:    llm,
		mailer: mailer,
		from:   from,
		logger: logger,
	}
}

func (s *EmailService) Generate(ctx context.Context, prompt string) (string, error) {
	p := entity.NewPrompt("email", prompt)
	if p.IsEmpty() {
		return "", ErrPromptRequired
	}

	completion, err := s.llm.Complete(ctx, p)
	if err != nil {
		return "", fmt.Errorf("generate email: %w", err)
	}

	s.logger.Info("email generated",
		"request_id", completion.RequestID,
		"model", completion.Model,
		"prompt", prompt,
		"content_len", len(completion.Content),
	)
	return completion.Content, nil
}

func (s *EmailService) Send(ctx context.Context, req entity.SendRequest) error {
	recipients := entity.CleanRecipients(req.Recipients)
	if len(recipients) == 0 || req.Subject == "" || req.Body == "" {
		return ErrMissingFields
	}

	msg := entity.Message{
		From:    s.from,
		To:      recipients,
		Subject: req.Subject,
		HTML:    entity.BodyToHTML(req.Body),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", "to", msg.ToHeader(), "subject", msg.Subject)
	return nil
}

// SendTest sends a fixed message from the configured sender to itself and
// returns the address it was sent to.
func (s *EmailService) SendTest(ctx context.Context) (string, error) {
	msg := entity.Message{
		From:    s.from,
		To:      []string{s.from},
		Subject: testSubject,
		HTML:    entity.BodyToHTML(testBody),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("send test email: %w", err)
	}
	return s.from, nil
}
