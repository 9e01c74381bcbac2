package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"emailcomposer/internal/domain/entity"
	"emailcomposer/internal/domain/repository"
	"emailcomposer/internal/infrastructure/metrics"
)

// ErrEmptyCompletion is returned when the provider answers without any usable text.
var ErrEmptyCompletion = errors.New("completion has no content")

const completionsPath = "/chat/completions"

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 4 << 10

type completionRequest struct {
	Model       string               `json:"model"`
	Messages    []entity.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	Stream      bool                 `json:"stream"`
}

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int                `json:"index"`
		Message      entity.ChatMessage `json:"message"`
		FinishReason string             `json:"finish_reason"`
	} `json:"choices"`
}

// OpenAIGenerator talks to any OpenAI-compatible chat-completion endpoint
// (Groq, OpenAI, local gateways).
type OpenAIGenerator struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
	logger      *slog.Logger
}

func NewOpenAIGenerator(apiKey, baseURL, model string, temperature float64, timeout time.Duration, logger *slog.Logger) repository.LLMGenerator {
	return &OpenAIGenerator{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (g *OpenAIGenerator) Complete(ctx context.Context, prompt entity.Prompt) (entity.Completion, error) {
	metrics.IncLLMRequest(g.model)
	start := time.Now()
	defer func() { metrics.ObserveLLMDuration(g.model, time.Since(start)) }()

	requestID := uuid.NewString()
	request := completionRequest{
		Model:       g.model,
		Messages:    prompt.Messages(),
		Temperature: g.temperature,
	}

	g.logger.Debug("sending completion request", "request_id", requestID, "model", g.model)

	response, err := g.makeRequest(ctx, requestID, request)
	if err != nil {
		return entity.Completion{}, fmt.Errorf("completion request %s: %w", requestID, err)
	}

	content, err := parseFirstChoice(response)
	if err != nil {
		metrics.IncError("llm", "parse_response")
		return entity.Completion{}, fmt.Errorf("completion request %s: %w", requestID, err)
	}

	model := response.Model
	if model == "" {
		model = g.model
	}
	return entity.Completion{
		RequestID: requestID,
		Model:     model,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (g *OpenAIGenerator) makeRequest(ctx context.Context, requestID string, request completionRequest) (*completionResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		metrics.IncError("llm", "marshal_request")
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+completionsPath, bytes.NewReader(jsonData))
	if err != nil {
		metrics.IncError("llm", "create_request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.IncError("llm", "http_do")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			g.logger.Warn("close completion body", "request_id", requestID, "err", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.IncError("llm", fmt.Sprintf("api_error_%d", resp.StatusCode))
		return nil, fmt.Errorf("completion api error: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		metrics.IncError("llm", "decode_response")
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}

func parseFirstChoice(response *completionResponse) (string, error) {
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("invalid response format: no choices: %w", ErrEmptyCompletion)
	}
	content := response.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("invalid response format: no content: %w", ErrEmptyCompletion)
	}
	return content, nil
}
