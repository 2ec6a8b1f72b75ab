// Package result defines the scored hit returned by the vector index.
package result

import "github.com/triagebot-ai/triagebot/internal/domain/document"

// Result is a document paired with its retrieval score. Scores are
// cosine similarity normalized to [0, 1]; exact incident matches carry
// a fixed score of 1.0.
type Result struct {
	document document.Document
	score    float64
}

// New creates a scored result.
func New(doc document.Document, score float64) Result {
	return Result{document: doc, score: score}
}

// Document returns the matched document.
func (r *Result) Document() document.Document { return r.document }

// Score returns the retrieval score.
func (r *Result) Score() float64 { return r.score }

// Documents strips scores from a result slice, preserving order.
func Documents(results []Result) []document.Document {
	docs := make([]document.Document, 0, len(results))
	for i := range results {
		docs = append(docs, results[i].Document())
	}
	return docs
}
