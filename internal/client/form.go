package client

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"emailcomposer/internal/domain/entity"
)

// RequestState is the lifecycle of one kind of backend call.
type RequestState int

const (
	Idle RequestState = iota
	InFlight
)

func (s RequestState) String() string {
	if s == InFlight {
		return "in-flight"
	}
	return "idle"
}

const (
	msgPromptMissing  = "Please enter a prompt."
	msgGenerated      = "Email generated!"
	msgGenerateFailed = "Failed to generate email."
	msgGenerateError  = "Error generating email."
	msgSendMissing    = "Recipient and email content are required."
	msgSent           = "Email sent successfully!"
	msgSendFailed     = "Failed to send email."
	msgSendError      = "Error sending email."
)

// Fields is a snapshot of the user-entered form values.
type Fields struct {
	Recipient    string
	Prompt       string
	Subject      string
	EmailContent string
}

// Form holds the compose form state and drives the two backend calls.
// It is safe for concurrent use; generate and send do not block each other.
type Form struct {
	api      API
	notifier Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	fields     Fields
	generating RequestState
	sending    RequestState
}

func NewForm(api API, notifier Notifier, logger *slog.Logger) *Form {
	return &Form{
		api:      api,
		notifier: notifier,
		logger:   logger,
		fields:   Fields{Subject: entity.DefaultSubject},
	}
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) SetRecipient(v string) { f.update(func(fl *Fields) { fl.Recipient = v }) }
func (f *Form) SetPrompt(v string) { f.update(func(fl *Fields) { fl.Prompt = v }) }
func (f *Form) SetSubject(v string) { f.update(func(fl *Fields) { fl.Subject = v }) }

// SetEmailContent replaces the draft, e.g. after the user edited it.
func (f *Form) SetEmailContent(v string) { f.update(func(fl *Fields) { fl.EmailContent = v }) }

func (f *Form) Generating() RequestState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generating
}

func (f *Form) Sending() RequestState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sending
}

func (f *Form) update(fn func(*Fields)) {
	f.mu.Lock()
	fn(&f.fields)
	f.mu.Unlock()
}

func (f *Form) setGenerating(s RequestState) {
	f.mu.Lock()
	f.generating = s
	f.mu.Unlock()
}

func (f *Form) setSending(s RequestState) {
	f.mu.Lock()
	f.sending = s
	f.mu.Unlock()
}

func (f *Form) notify(level Level, text string) {
	f.notifier.Notify(Notification{Level: level, Text: text})
}

// Generate asks the backend for a draft from the current prompt. A blank
// prompt is rejected locally without a network call.
func (f *Form) Generate(ctx context.Context) {
	prompt := f.Fields().Prompt
	if strings.TrimSpace(prompt) == "" {
		f.notify(LevelWarning, msgPromptMissing)
		return
	}

	f.setGenerating(InFlight)
	defer f.setGenerating(Idle)

	res, err := f.api.GenerateEmail(ctx, entity.GenerateRequest{Prompt: prompt})
	if err != nil {
		f.logger.Error("generate email request failed", "err", err)
		f.notify(LevelError, msgGenerateError)
		return
	}
	if res.EmailContent == "" {
		f.notify(LevelError, msgGenerateFailed)
		return
	}

	f.SetEmailContent(res.EmailContent)
	f.notify(LevelSuccess, msgGenerated)
}

// Send dispatches the current draft to the single recipient. On success the
// recipient, prompt and draft are cleared; on failure the form is left as is.
func (f *Form) Send(ctx context.Context) {
	fields := f.Fields()
	if fields.Recipient == "" || fields.EmailContent == "" {
		f.notify(LevelWarning, msgSendMissing)
		return
	}

	f.setSending(InFlight)
	defer f.setSending(Idle)

	res, err := f.api.SendEmail(ctx, entity.SendRequest{
		Recipients: []string{fields.Recipient},
		Subject:    fields.Subject,
		Body:       fields.EmailContent,
	})
	if err != nil {
		f.logger.Error("send email request failed", "err", err)
		f.notify(LevelError, msgSendError)
		return
	}
	if res.Message == "" {
		f.notify(LevelError, msgSendFailed)
		return
	}

	f.notify(LevelSuccess, msgSent)
	f.update(func(fl *Fields) {
		fl.Recipient = ""
		fl.Prompt = ""
		fl.EmailContent = ""
	})
}
