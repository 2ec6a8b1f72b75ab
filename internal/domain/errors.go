package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrIndexUnavailable signals a vector index call that failed or timed out.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrMalformedSnapshot signals an incident snapshot whose record groups are inconsistent.
	ErrMalformedSnapshot = errors.New("malformed incident snapshot")
	// ErrInvalidMode signals an unsupported search mode.
	ErrInvalidMode = errors.New("invalid search mode")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationFailed signals a generation model failure.
	ErrGenerationFailed = errors.New("generation failed")
)
