package retrieval

import (
	"context"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/search/result"
)

// Repository defines the vector index contract for retrieval.
type Repository interface {
	SearchKNN(
		ctx context.Context, vector []float32, k int, types []string, includeVectors bool,
	) ([]result.Result, error)

	SearchByIncidentNumber(ctx context.Context, number string, limit int) ([]result.Result, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
