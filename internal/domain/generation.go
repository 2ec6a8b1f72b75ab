package domain

import "context"

// Message roles for chat-style generation requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a generation request.
type Message struct {
	Role    string
	Content string
}

// Generator produces a single-shot completion for a chat-style prompt.
// Streaming is a UI concern and is deliberately not part of this contract.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}
