// Package index persists incident documents in a Redis vector index and
// maps hash entries back to domain documents.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/triagebot-ai/triagebot/internal/db"
	"github.com/triagebot-ai/triagebot/internal/db/redis"
	"github.com/triagebot-ai/triagebot/internal/domain/document"
	"github.com/triagebot-ai/triagebot/internal/domain/search/result"
)

// Hash field names that are not metadata.
const (
	fieldContent = "content"
	fieldVector  = "vector"
)

// store is the consumer interface for index operations (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchTag(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Config holds index naming and HNSW parameters.
type Config struct {
	Name            string
	KeyPrefix       string
	Dimensions      int
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements the vector index repository over a single incidents index.
type Repo struct {
	store store
	cfg   Config
}

// New creates an index repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.cfg.Name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.cfg.Name, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.cfg.Name,
		Prefixes: []string{r.keyPrefix()},
		Fields: []db.IndexField{
			{Name: document.MetaIncidentNumber, Type: db.IndexFieldTag},
			{Name: document.MetaType, Type: db.IndexFieldTag},
			{Name: fieldContent, Type: db.IndexFieldText},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.cfg.Dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.cfg.HNSWM,
				VectorEFConstruct: r.cfg.HNSWEFConstruct,
			},
		},
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", r.cfg.Name, err)
	}
	return nil
}

// UpsertDocuments stores documents as hashes in a single pipelined round-trip.
// Documents must already carry embedding vectors.
func (r *Repo) UpsertDocuments(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if len(doc.Vector()) == 0 {
			return fmt.Errorf("document %s has no vector", doc.ID())
		}

		fields := make(map[string]string, len(doc.Metadata())+2)
		for k, v := range doc.Metadata() {
			if v != "" {
				fields[k] = v
			}
		}
		fields[fieldContent] = doc.Content()
		fields[fieldVector] = redis.VectorToBytes(doc.Vector())

		items = append(items, db.HashSetItem{Key: r.docKey(doc.ID()), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d documents: %w", len(items), err)
	}
	return nil
}

// SearchKNN performs vector similarity search, optionally restricted to
// the given document types.
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, k int, types []string, includeVectors bool,
) ([]result.Result, error) {
	var filters []db.TagFilter
	if len(types) > 0 {
		filters = []db.TagFilter{{Field: document.MetaType, Values: types}}
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:     r.cfg.Name,
		Filters:       filters,
		Vector:        vector,
		K:             k,
		IncludeVector: includeVectors,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return r.parseResults(sr, includeVectors, 0), nil
}

// SearchByIncidentNumber matches documents by exact incident number tag.
// Matches are exact, so every hit carries a score of 1.0.
func (r *Repo) SearchByIncidentNumber(ctx context.Context, number string, limit int) ([]result.Result, error) {
	sr, err := r.store.SearchTag(ctx, &db.TagQuery{
		IndexName: r.cfg.Name,
		Filters:   []db.TagFilter{{Field: document.MetaIncidentNumber, Values: []string{number}}},
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search incident %s: %w", number, err)
	}

	return r.parseResults(sr, false, 1.0), nil
}

// Count returns the number of indexed documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.cfg.Name, "*")
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// parseResults converts db hits into scored results. When fixedScore is
// non-zero it replaces the per-entry score (exact matches).
func (r *Repo) parseResults(sr *db.SearchResult, includeVectors bool, fixedScore float64) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	prefix := r.keyPrefix()
	results := make([]result.Result, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		docID := strings.TrimPrefix(entry.Key, prefix)

		var content string
		var vector []float32
		metadata := make(map[string]string)

		for k, v := range entry.Fields {
			switch k {
			case fieldContent:
				content = v
			case fieldVector:
				if includeVectors {
					vector = redis.BytesToVector(v)
				}
			default:
				metadata[k] = v
			}
		}

		if content == "" {
			continue
		}

		score := entry.Score
		if fixedScore > 0 {
			score = fixedScore
		}

		doc := document.Reconstruct(docID, content, metadata, vector)
		results = append(results, result.New(doc, score))
	}

	return results
}

func (r *Repo) docKey(id string) string {
	return r.keyPrefix() + id
}

func (r *Repo) keyPrefix() string {
	return r.cfg.KeyPrefix + "incidents:"
}
