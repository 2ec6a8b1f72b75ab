package ingest

import (
	"context"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
)

// Embedder produces a vector for a rendered document.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Indexer persists embedded documents into the vector index.
type Indexer interface {
	EnsureIndex(ctx context.Context) error
	UpsertDocuments(ctx context.Context, docs []document.Document) error
	Count(ctx context.Context) (int, error)
}
