package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"emailcomposer/internal/domain/entity"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Complete(ctx context.Context, prompt entity.Prompt) (entity.Completion, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(entity.Completion), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg entity.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newTestService() (*EmailService, *MockGenerator, *MockSender) {
	gen := &MockGenerator{}
	sender := &MockSender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEmailService(gen, sender, "me@example.com", logger), gen, sender
}

func TestEmailService_Generate(t *testing.T) {
	t.Parallel()

	svc, gen, _ := newTestService()
	gen.On("Complete", mock.Anything, mock.MatchedBy(func(p entity.Prompt) bool {
		return p.Text == "Write a one-line thank you note"
	})).Return(entity.Completion{RequestID: "req-1", Content: "Thank you for..."}, nil)

	content, err := svc.Generate(context.Background(), "Write a one-line thank you note")
	require.NoError(t, err)
	assert.Equal(t, "Thank you for...", content)
	gen.AssertExpectations(t)
}

func TestEmailService_Generate_EmptyPrompt(t *testing.T) {
	t.Parallel()

	for _, prompt := range []string{"", "   ", "\n\t"} {
		svc, gen, _ := newTestService()

		_, err := svc.Generate(context.Background(), prompt)
		require.ErrorIs(t, err, ErrPromptRequired)
		gen.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	}
}

func TestEmailService_Generate_ProviderError(t *testing.T) {
	t.Parallel()

	svc, gen, _ := newTestService()
	providerErr := errors.New("completion api error: 401 - invalid api key")
	gen.On("Complete", mock.Anything, mock.Anything).Return(entity.Completion{}, providerErr)

	_, err := svc.Generate(context.Background(), "hello")
	require.ErrorIs(t, err, providerErr)
	assert.NotErrorIs(t, err, ErrPromptRequired)
}

func TestEmailService_Send(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestService()
	sender.On("Send", mock.Anything, entity.Message{
		From:    "me@example.com",
		To:      []string{"bob@example.com"},
		Subject: "AI Generated Email",
		HTML:    "<p>Hi Bob,<br>Thanks!</p>",
	}).Return(nil)

	err := svc.Send(context.Background(), entity.SendRequest{
		Recipients: []string{"bob@example.com"},
		Subject:    "AI Generated Email",
		Body:       "Hi Bob,\nThanks!",
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestEmailService_Send_CommaSeparatedRecipients(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestService()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg entity.Message) bool {
		return assert.ObjectsAreEqual([]string{"a@example.com", "b@example.com", "c@example.com"}, msg.To)
	})).Return(nil)

	err := svc.Send(context.Background(), entity.SendRequest{
		Recipients: []string{"a@example.com, b@example.com", " c@example.com "},
		Subject:    "AI Generated Email",
		Body:       "Hello",
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestEmailService_Send_WhitespaceSubject(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestService()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg entity.Message) bool {
		return msg.Subject == "   "
	})).Return(nil)

	err := svc.Send(context.Background(), entity.SendRequest{
		Recipients: []string{"bob@example.com"},
		Subject:    "   ",
		Body:       "Hello",
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestEmailService_Send_MissingFields(t *testing.T) {
	t.Parallel()

	valid := entity.SendRequest{Recipients: []string{"bob@example.com"}, Subject: "s", Body: "b"}
	tests := []struct {
		name string
		edit func(r *entity.SendRequest)
	}{
		{name: "no recipients", edit: func(r *entity.SendRequest) { r.Recipients = nil }},
		{name: "blank recipients", edit: func(r *entity.SendRequest) { r.Recipients = []string{"", " "} }},
		{name: "no subject", edit: func(r *entity.SendRequest) { r.Subject = "" }},
		{name: "no body", edit: func(r *entity.SendRequest) { r.Body = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, _, sender := newTestService()
			req := valid
			req.Recipients = append([]string(nil), valid.Recipients...)
			tt.edit(&req)

			err := svc.Send(context.Background(), req)
			require.ErrorIs(t, err, ErrMissingFields)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestEmailService_Send_RelayError(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestService()
	relayErr := errors.New("dial tcp: connection refused")
	sender.On("Send", mock.Anything, mock.Anything).Return(relayErr)

	err := svc.Send(context.Background(), entity.SendRequest{
		Recipients: []string{"bob@example.com"},
		Subject:    "s",
		Body:       "b",
	})
	require.ErrorIs(t, err, relayErr)
	assert.NotErrorIs(t, err, ErrMissingFields)
}

func TestEmailService_SendTest(t *testing.T) {
	t.Parallel()

	svc, _, sender := newTestService()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg entity.Message) bool {
		return msg.From == "me@example.com" &&
			len(msg.To) == 1 && msg.To[0] == "me@example.com" &&
			msg.Subject == "Test Email from AI Email Sender" &&
			msg.HTML == "<p>This is a test email from your AI Email Sender app.</p>"
	})).Return(nil)

	to, err := svc.SendTest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", to)
	sender.AssertExpectations(t)
}
