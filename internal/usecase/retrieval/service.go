// Package retrieval dispatches queries across the three retrieval modes
// and applies the confidence gate and MMR re-ranking.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
	"github.com/triagebot-ai/triagebot/internal/domain/search/mode"
	"github.com/triagebot-ai/triagebot/internal/domain/search/result"
	"github.com/triagebot-ai/triagebot/internal/logger"
	"github.com/triagebot-ai/triagebot/internal/metrics"
)

const (
	// incidentMatchLimit caps exact matches per extracted incident number.
	incidentMatchLimit = 5
	// generalPoolSize is the KNN candidate pool in general mode.
	generalPoolSize = 10
	// generalMMRK caps the documents returned in general mode.
	generalMMRK = 3
	// fallbackTopN is returned when the confidence gate rejects everything.
	fallbackTopN = 2
	// mmrOnlyK and mmrOnlyFetchK drive the mmr_only mode.
	mmrOnlyK      = 10
	mmrOnlyFetchK = 20
)

// generalTypes restricts general mode to answerable document types,
// excluding aggregate status-count documents.
var generalTypes = []string{document.TypeIncidentDetails, document.TypeResolution}

// Service routes a query to the retrieval strategy for its mode.
type Service struct {
	repo          Repository
	embed         Embedder
	minConfidence float64
	searchTimeout time.Duration
}

// New creates a retrieval dispatcher. minConfidence gates general-mode
// results; searchTimeout bounds each index round-trip.
func New(repo Repository, embed Embedder, minConfidence float64, searchTimeout time.Duration) *Service {
	return &Service{
		repo:          repo,
		embed:         embed,
		minConfidence: minConfidence,
		searchTimeout: searchTimeout,
	}
}

// Retrieve returns the documents relevant to the query for the given mode.
// Index failures surface as domain.ErrIndexUnavailable; an empty result
// is not an error.
func (s *Service) Retrieve(ctx context.Context, query string, m mode.Mode) ([]document.Document, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidMode, m)
	}

	start := time.Now()

	var results []result.Result
	var err error

	switch m {
	case mode.IncidentNumber:
		results, err = s.retrieveByIncidentNumber(ctx, query)
	case mode.MMROnly:
		results, err = s.retrieveMMROnly(ctx, query)
	case mode.General:
		results, err = s.retrieveGeneral(ctx, query)
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RetrievalRequestsTotal.WithLabelValues(m.String(), status).Inc()
	metrics.RetrievalDuration.WithLabelValues(m.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}

	metrics.RetrievalDocumentsReturned.WithLabelValues(m.String()).Observe(float64(len(results)))

	logger.FromContext(ctx).Debug("Retrieval finished",
		zap.String("mode", m.String()),
		zap.Int("documents", len(results)),
	)

	return result.Documents(results), nil
}

// retrieveByIncidentNumber matches documents by exact incident number
// tags. No semantic fallback: unknown numbers return an empty result.
func (s *Service) retrieveByIncidentNumber(ctx context.Context, query string) ([]result.Result, error) {
	numbers := ExtractIncidentNumbers(query)
	if len(numbers) == 0 {
		return nil, nil
	}

	var all []result.Result
	for _, number := range numbers {
		results, err := s.searchIncident(ctx, number, incidentMatchLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}

	return all, nil
}

// retrieveGeneral embeds the query, pools KNN candidates over answerable
// types, applies the confidence gate (with top-2 fallback), and re-ranks
// the survivors by MMR.
func (s *Service) retrieveGeneral(ctx context.Context, query string) ([]result.Result, error) {
	vec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.searchKNN(ctx, vec, generalPoolSize, generalTypes, true)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	survivors := make([]result.Result, 0, len(candidates))
	for _, r := range candidates {
		if r.Score() >= s.minConfidence {
			survivors = append(survivors, r)
		}
	}

	if len(survivors) == 0 {
		// Nothing confident enough: keep the best two candidates rather
		// than answering from nothing.
		metrics.RetrievalFallbacksTotal.Inc()
		logger.FromContext(ctx).Debug("Confidence gate rejected all candidates, using fallback",
			zap.Float64("min_confidence", s.minConfidence),
			zap.Int("candidates", len(candidates)),
		)
		// The index does not guarantee score order, so rank before slicing.
		survivors = append(survivors, candidates...)
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].Score() > survivors[j].Score()
		})
		if len(survivors) > fallbackTopN {
			survivors = survivors[:fallbackTopN]
		}
	}

	return selectMMR(survivors, generalMMRK), nil
}

// retrieveMMROnly runs MMR over the whole index with no type filter and
// no confidence gate.
func (s *Service) retrieveMMROnly(ctx context.Context, query string) ([]result.Result, error) {
	vec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.searchKNN(ctx, vec, mmrOnlyFetchK, nil, true)
	if err != nil {
		return nil, err
	}

	return selectMMR(candidates, mmrOnlyK), nil
}

func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	return embResult.Embedding, nil
}

func (s *Service) searchKNN(
	ctx context.Context, vec []float32, k int, types []string, includeVectors bool,
) ([]result.Result, error) {
	ctx, cancel := s.withSearchTimeout(ctx)
	defer cancel()

	results, err := s.repo.SearchKNN(ctx, vec, k, types, includeVectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return results, nil
}

func (s *Service) searchIncident(ctx context.Context, number string, limit int) ([]result.Result, error) {
	ctx, cancel := s.withSearchTimeout(ctx)
	defer cancel()

	results, err := s.repo.SearchByIncidentNumber(ctx, number, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return results, nil
}

func (s *Service) withSearchTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.searchTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.searchTimeout)
}
