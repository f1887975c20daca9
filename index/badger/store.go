// Copyright 2025 Violet Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/violetlabs/docbase/ai"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index"
)

const (
	// DefaultTopK is the number of results a similarity search returns.
	DefaultTopK = 4

	// DefaultMinSimilarity accepts every scanned chunk; retrieval callers
	// apply their own budgets on top.
	DefaultMinSimilarity float32 = 0.0
)

// Store implements index.Index on BadgerDB. Chunks are embedded on write
// and similarity search is a brute-force cosine scan over all stored
// records, which is adequate for the single-node document volumes this
// backend targets.
type Store struct {
	backend       *Backend
	ownsBackend   bool
	embedder      ai.Embedder
	topK          int
	minSimilarity float32
	logger        *slog.Logger
}

var _ index.Index = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithTopK sets how many results a similarity search returns.
func WithTopK(k int) Option {
	return func(s *Store) error {
		if k > 0 {
			s.topK = k
		}
		return nil
	}
}

// WithMinSimilarity sets the cosine similarity threshold below which
// scanned chunks are discarded.
func WithMinSimilarity(min float32) Option {
	return func(s *Store) error {
		s.minSimilarity = min
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New opens a BadgerDB-backed index at filePath.
//
// Returns index.Index interface to enforce abstraction.
func New(filePath string, embedder ai.Embedder, opts ...Option) (index.Index, error) {
	backend, err := OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	store, err := NewWithBackend(backend, embedder, opts...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	store.ownsBackend = true
	return store, nil
}

// NewWithBackend creates a Store on an already opened backend. The caller
// remains responsible for closing the backend.
func NewWithBackend(backend *Backend, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, index.ErrEmbedderRequired
	}

	s := &Store{
		backend:       backend,
		embedder:      embedder,
		topK:          DefaultTopK,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default().With("component", "badger-index"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add embeds and persists a batch of chunks. The batch is written in one
// transaction: either every chunk lands or none does.
func (s *Store) Add(ctx context.Context, chunks []core.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return []string{}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		if err := core.ValidateChunk(&chunk); err != nil {
			return nil, err
		}
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrAddFailed, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", index.ErrAddFailed, len(vectors), len(chunks))
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for i, chunk := range chunks {
			value := marshalRecord(record{Chunk: chunk, Vector: vectors[i]})
			if err := tx.Set(makeChunkKey(chunk.ID), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrAddFailed, err)
	}

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}

	s.logger.Debug("added chunks to index", "count", len(ids))
	return ids, nil
}

// SimilaritySearch embeds the query and scans all stored chunks, returning
// up to TopK results ordered by cosine similarity (highest first).
func (s *Store) SimilaritySearch(ctx context.Context, query string) ([]core.Chunk, error) {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrQueryFailed, err)
	}

	type scored struct {
		chunk core.Chunk
		score float32
	}
	var results []scored

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var rec record
			err := item.Value(func(val []byte) error {
				var err error
				rec, err = unmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip records without embeddings
			if len(rec.Vector) == 0 {
				continue
			}

			similarity := cosineSimilarity(vector, rec.Vector)
			if similarity >= s.minSimilarity {
				results = append(results, scored{chunk: rec.Chunk, score: similarity})
			}
		}

		return nil
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrQueryFailed, err)
	}

	// Sort by similarity descending
	slices.SortStableFunc(results, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})

	if len(results) > s.topK {
		results = results[:s.topK]
	}

	chunks := make([]core.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.chunk
	}

	s.logger.Debug("similarity search complete", "query_len", len(query), "hits", len(chunks))
	return chunks, nil
}

// Close closes the underlying backend if this store opened it.
func (s *Store) Close() error {
	if s.ownsBackend {
		return s.backend.Close()
	}
	return nil
}

// cosineSimilarity calculates the cosine similarity of two vectors.
// Vectors of mismatched length are compared over their shared prefix.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < minLen; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB)))
}
