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


// Package qdrant implements index.Index against a remote Qdrant
// collection through the langchaingo vector store client. Embedding is
// delegated to the langchaingo embedder wired into the client, so this
// adapter never sees raw vectors.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores/qdrant"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index"
)

// DefaultTopK is the number of results a similarity search returns.
const DefaultTopK = 4

// Config holds connection settings for a Qdrant collection.
type Config struct {
	// URL is the base URL of the Qdrant server, e.g. "http://localhost:6333".
	URL string

	// APIKey authenticates against managed Qdrant deployments. Optional.
	APIKey string

	// Collection is the collection chunks are stored in.
	Collection string
}

// Store implements index.Index on a Qdrant collection.
type Store struct {
	store  qdrant.Store
	topK   int
	logger *slog.Logger
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

// New connects to a Qdrant collection.
//
// Returns index.Index interface to enforce abstraction.
func New(cfg Config, embedder embeddings.Embedder, opts ...Option) (index.Index, error) {
	if embedder == nil {
		return nil, index.ErrEmbedderRequired
	}

	qdrantURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid qdrant url %q: %w", cfg.URL, err)
	}

	inner, err := qdrant.New(
		qdrant.WithURL(*qdrantURL),
		qdrant.WithAPIKey(cfg.APIKey),
		qdrant.WithCollectionName(cfg.Collection),
		qdrant.WithEmbedder(embedder),
	)
	if err != nil {
		return nil, err
	}

	s := &Store{
		store:  inner,
		topK:   DefaultTopK,
		logger: slog.Default().With("component", "qdrant-index"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add upserts a batch of chunks into the collection.
func (s *Store) Add(ctx context.Context, chunks []core.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return []string{}, nil
	}

	docs := make([]schema.Document, len(chunks))
	for i, chunk := range chunks {
		if err := core.ValidateChunk(&chunk); err != nil {
			return nil, err
		}
		docs[i] = index.ToDocument(chunk)
	}

	ids, err := s.store.AddDocuments(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrAddFailed, err)
	}

	s.logger.Debug("added chunks to qdrant", "count", len(ids))
	return ids, nil
}

// SimilaritySearch returns up to TopK chunks related to the query.
func (s *Store) SimilaritySearch(ctx context.Context, query string) ([]core.Chunk, error) {
	docs, err := s.store.SimilaritySearch(ctx, query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrQueryFailed, err)
	}

	chunks := make([]core.Chunk, len(docs))
	for i, doc := range docs {
		chunks[i] = index.FromDocument(doc)
	}
	return chunks, nil
}

// Close is a no-op; the underlying client holds no persistent connection.
func (s *Store) Close() error {
	return nil
}
