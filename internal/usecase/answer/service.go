package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
	"github.com/triagebot-ai/triagebot/internal/domain/search/mode"
	"github.com/triagebot-ai/triagebot/internal/logger"
	"github.com/triagebot-ai/triagebot/internal/usecase/retrieval"
)

// Canned answers for the boundaries where the pipeline cannot or should
// not produce a generated response.
const (
	emptyQueryAnswer = "Please provide a valid query."
	notFoundAnswer   = "I couldn't find any information about that incident. Please check the incident number and try again."
	tryAgainAnswer   = "An unexpected error occurred while processing your request. Please try again later."
)

// Response is the composed answer plus the documents it was grounded on.
type Response struct {
	Answer  string
	Sources []document.Document
}

// Service composes final answers: greeting short-circuit, retrieval,
// incident re-filtering, prompt assembly, and generation.
type Service struct {
	retriever Retriever
	generator Generator
	now       func() time.Time
}

func NewService(retriever Retriever, generator Generator) *Service {
	return &Service{
		retriever: retriever,
		generator: generator,
		now:       time.Now,
	}
}

// Answer runs the full question pipeline. Internal failures never
// surface raw: they are logged and rendered as canned answers, so the
// caller always gets something presentable. Only an invalid search mode
// is returned as an error, since the caller sent a bad request.
func (s *Service) Answer(ctx context.Context, query string, m mode.Mode) (Response, error) {
	log := logger.FromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return Response{Answer: emptyQueryAnswer}, nil
	}

	if isGreeting(query) {
		log.Debug("greeting short-circuit", zap.String("query", query))
		return Response{Answer: greetingAnswer(s.now())}, nil
	}

	docs, err := s.retriever.Retrieve(ctx, query, m)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMode) {
			return Response{}, err
		}
		log.Warn("retrieval failed", zap.Error(err))
		return Response{Answer: tryAgainAnswer}, nil
	}
	if len(docs) == 0 {
		return Response{Answer: notFoundAnswer}, nil
	}

	docs = filterByIncidentNumbers(query, docs)

	text, err := s.generator.Generate(ctx, buildPrompt(query, docs))
	if err != nil {
		log.Warn("generation failed", zap.Error(err))
		return Response{Answer: tryAgainAnswer, Sources: docs}, nil
	}

	return Response{Answer: text, Sources: docs}, nil
}

// filterByIncidentNumbers narrows the context to documents whose
// incident number appears in the query. When the query carries tokens
// but nothing matches, the full set is kept so the model can still
// explain what it does know.
func filterByIncidentNumbers(query string, docs []document.Document) []document.Document {
	numbers := retrieval.ExtractIncidentNumbers(query)
	if len(numbers) == 0 {
		return docs
	}

	wanted := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		wanted[n] = true
	}

	matched := make([]document.Document, 0, len(docs))
	for _, doc := range docs {
		if wanted[doc.IncidentNumber()] {
			matched = append(matched, doc)
		}
	}
	if len(matched) == 0 {
		return docs
	}
	return matched
}
