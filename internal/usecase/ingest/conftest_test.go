package ingest

import (
	"context"
	"sync"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
)

type mockIndexer struct {
	mu          sync.Mutex
	ensureErr   error
	upsertErr   error
	ensureCalls int
	upserted    []document.Document
}

func (m *mockIndexer) EnsureIndex(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls++
	return m.ensureErr
}

func (m *mockIndexer) UpsertDocuments(_ context.Context, docs []document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, docs...)
	return nil
}

func (m *mockIndexer) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.upserted), nil
}

type mockEmbedder struct {
	mu    sync.Mutex
	errBy map[string]error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.errBy[text]; ok {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}
