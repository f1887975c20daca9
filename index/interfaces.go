package index

import (
	"context"

	"github.com/violetlabs/docbase/core"
)

// Index is the external vector-similarity store consumed by the pipeline.
// Implementations must be thread-safe: ingestion and retrieval may run
// concurrently against the same index. The store is append-only from the
// caller's perspective; chunks are never updated or deleted through this
// interface.
type Index interface {
	// Add persists a batch of chunks and returns the IDs assigned by the
	// store (the chunk IDs, for backends that honor caller identity).
	// An empty batch returns an empty slice without touching the store.
	Add(ctx context.Context, chunks []core.Chunk) ([]string, error)

	// SimilaritySearch returns chunks related to the query text, most
	// relevant first according to the backend's own ranking. A query that
	// matches nothing returns an empty slice, not an error.
	SimilaritySearch(ctx context.Context, query string) ([]core.Chunk, error)

	// Close releases resources held by the backend.
	Close() error
}
