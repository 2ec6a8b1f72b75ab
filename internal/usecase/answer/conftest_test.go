package answer

import (
	"context"
	"time"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
	"github.com/triagebot-ai/triagebot/internal/domain/search/mode"
)

type mockRetriever struct {
	docs  []document.Document
	err   error
	calls int
	query string
	mode  mode.Mode
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, md mode.Mode) ([]document.Document, error) {
	m.calls++
	m.query = query
	m.mode = md
	return m.docs, m.err
}

type mockGenerator struct {
	answer   string
	err      error
	calls    int
	messages []domain.Message
}

func (m *mockGenerator) Generate(_ context.Context, messages []domain.Message) (string, error) {
	m.calls++
	m.messages = messages
	return m.answer, m.err
}

func newTestService(r *mockRetriever, g *mockGenerator, at time.Time) *Service {
	svc := NewService(r, g)
	svc.now = func() time.Time { return at }
	return svc
}

func doc(id, number, content string) document.Document {
	return document.Reconstruct(id, content, map[string]string{
		document.MetaIncidentNumber: number,
		document.MetaType:           document.TypeIncidentDetails,
	}, nil)
}
