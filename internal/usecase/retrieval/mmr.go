package retrieval

import (
	"math"

	"github.com/triagebot-ai/triagebot/internal/domain/search/result"
)

// mmrLambda balances relevance against diversity in maximal marginal
// relevance selection. Higher values favor relevance.
const mmrLambda = 0.6

// selectMMR re-ranks candidates by maximal marginal relevance:
// mmr(d) = lambda*rel(d) - (1-lambda)*max sim(d, s) over selected s.
// Relevance is the candidate's retrieval score; pairwise similarity is
// cosine over the stored vectors. Candidates without vectors contribute
// zero pairwise similarity and compete on relevance alone.
func selectMMR(candidates []result.Result, k int) []result.Result {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if len(candidates) <= k {
		k = len(candidates)
	}

	selected := make([]result.Result, 0, k)
	remaining := make([]result.Result, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)

		for i := range remaining {
			cand := &remaining[i]

			maxSim := 0.0
			for j := range selected {
				sel := selected[j].Document()
				candDoc := cand.Document()
				if sim := cosineSimilarity(candDoc.Vector(), sel.Vector()); sim > maxSim {
					maxSim = sim
				}
			}

			score := mmrLambda*cand.Score() - (1-mmrLambda)*maxSim
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either vector is empty or zero-length.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
