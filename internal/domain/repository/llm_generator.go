package repository

import (
	"context"

	"emailcomposer/internal/domain/entity"
)

// LLMGenerator drafts text through a chat-completion provider.
type LLMGenerator interface {
	// Complete sends the prompt as one user-role message and returns the
	// first choice of a single non-streaming completion.
	Complete(ctx context.Context, prompt entity.Prompt) (entity.Completion, error)
}
