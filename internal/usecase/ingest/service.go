package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/triagebot-ai/triagebot/internal/domain"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
	"github.com/triagebot-ai/triagebot/internal/logger"
)

const embedConcurrency = 8

// Summary reports the outcome of one ingestion run.
type Summary struct {
	Total             int      `json:"total"`
	Indexed           int      `json:"indexed"`
	SkippedDuplicates int      `json:"skipped_duplicates"`
	Failed            int      `json:"failed"`
	Errors            []string `json:"errors,omitempty"`
}

// Service turns incident snapshots into embedded, indexed documents.
type Service struct {
	indexer Indexer
	embed   Embedder
}

func NewService(indexer Indexer, embed Embedder) *Service {
	return &Service{indexer: indexer, embed: embed}
}

// Ingest parses a snapshot, embeds every document, and upserts the
// results. Individual embedding failures are recorded in the summary
// and skip only that document; a rate-limit error from the embedding
// provider aborts the whole run.
func (s *Service) Ingest(ctx context.Context, raw []byte) (Summary, error) {
	log := logger.FromContext(ctx)

	docs, skipped, err := ParseSnapshot(raw)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Total: len(docs) + skipped, SkippedDuplicates: skipped}
	if len(docs) == 0 {
		return summary, nil
	}

	if err := s.indexer.EnsureIndex(ctx); err != nil {
		return Summary{}, fmt.Errorf("ensure index: %w", err)
	}

	var mu sync.Mutex
	failed := make(map[int]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range docs {
		g.Go(func() error {
			res, err := s.embed.Embed(gctx, docs[i].Content())
			if err != nil {
				if errors.Is(err, domain.ErrRateLimited) {
					return fmt.Errorf("embed document %s: %w", docs[i].ID(), err)
				}
				mu.Lock()
				failed[i] = err.Error()
				mu.Unlock()
				log.Warn("embedding failed, skipping document",
					zap.String("doc_id", docs[i].ID()), zap.Error(err))
				return nil
			}
			docs[i].SetVector(res.Embedding)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	embedded := make([]document.Document, 0, len(docs))
	for i := range docs {
		if msg, ok := failed[i]; ok {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", docs[i].ID(), msg))
			continue
		}
		embedded = append(embedded, docs[i])
	}

	if len(embedded) > 0 {
		if err := s.indexer.UpsertDocuments(ctx, embedded); err != nil {
			return Summary{}, fmt.Errorf("upsert documents: %w", err)
		}
	}
	summary.Indexed = len(embedded)

	indexSize, err := s.indexer.Count(ctx)
	if err != nil {
		log.Warn("failed to count indexed documents", zap.Error(err))
		indexSize = -1
	}

	log.Info("snapshot ingested",
		zap.Int("total", summary.Total),
		zap.Int("indexed", summary.Indexed),
		zap.Int("skipped_duplicates", summary.SkippedDuplicates),
		zap.Int("failed", summary.Failed),
		zap.Int("index_size", indexSize))

	return summary, nil
}
