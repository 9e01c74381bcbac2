package entity

import "strings"

const RoleUser = "user"

// ChatMessage is a single role/content pair sent to the completion provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Prompt struct {
	ID   string
	Text string
}

func NewPrompt(id, text string) Prompt {
	return Prompt{ID: id, Text: text}
}

func (p Prompt) IsEmpty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Messages returns the prompt as a single user-role message.
func (p Prompt) Messages() []ChatMessage {
	return []ChatMessage{{Role: RoleUser, Content: p.Text}}
}
