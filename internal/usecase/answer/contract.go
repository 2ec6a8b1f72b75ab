package answer

import (
	"context"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
	"github.com/triagebot-ai/triagebot/internal/domain/search/mode"
)

// Retriever fetches context documents for a query in a given search mode.
type Retriever interface {
	Retrieve(ctx context.Context, query string, m mode.Mode) ([]document.Document, error)
}

// Generator produces the final answer text from a chat-style prompt.
type Generator interface {
	Generate(ctx context.Context, messages []domain.Message) (string, error)
}
