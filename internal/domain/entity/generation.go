package entity

import "time"

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	EmailContent string `json:"emailContent"`
}

// Completion is the outcome of one call to the completion provider.
type Completion struct {
	RequestID string
	Model     string
	Content   string
	CreatedAt time.Time
}
