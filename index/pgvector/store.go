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


// Package pgvector implements index.Index on PostgreSQL with the
// pgvector extension. Chunks live in a single table with their metadata
// as JSONB and their embedding as a vector column; similarity search
// uses the cosine distance operator.
package pgvector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"
	"github.com/violetlabs/docbase/ai"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index"
)

const (
	// DefaultTopK is the number of results a similarity search returns.
	DefaultTopK = 4

	// DefaultDimensions must match the embedding model's output width.
	DefaultDimensions = 768
)

// Store implements index.Index on a pgvector-enabled Postgres database.
type Store struct {
	pool       *pgxpool.Pool
	embedder   ai.Embedder
	topK       int
	dimensions int
	logger     *slog.Logger
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

// WithDimensions sets the width of the embedding column. Must match the
// embedding model. Only consulted when the table is first created.
func WithDimensions(d int) Option {
	return func(s *Store) error {
		if d > 0 {
			s.dimensions = d
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

// New connects to Postgres and ensures the chunks table exists.
//
// Returns index.Index interface to enforce abstraction.
func New(ctx context.Context, connString string, embedder ai.Embedder, opts ...Option) (index.Index, error) {
	if embedder == nil {
		return nil, index.ErrEmbedderRequired
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		pool:       pool,
		embedder:   embedder,
		topK:       DefaultTopK,
		dimensions: DefaultDimensions,
		logger:     slog.Default().With("component", "pgvector-index"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			pool.Close()
			return nil, err
		}
	}

	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		embedding vector(%d)
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON chunks
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_chunks_conversation ON chunks
		((metadata->>'conversation_id'));
	`, s.dimensions)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Add embeds and upserts a batch of chunks. Re-adding an existing ID
// refreshes its content, metadata and embedding.
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
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			index.ErrAddFailed, len(vectors), len(chunks))
	}

	query := `
	INSERT INTO chunks (id, content, metadata, embedding)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		content = EXCLUDED.content,
		metadata = EXCLUDED.metadata,
		embedding = EXCLUDED.embedding
	`

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		doc := index.ToDocument(chunk)
		_, err := s.pool.Exec(ctx, query,
			chunk.ID, chunk.Text, doc.Metadata, pgv.NewVector(vectors[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", index.ErrAddFailed, err)
		}
		ids[i] = chunk.ID
	}

	s.logger.Debug("added chunks to pgvector", "count", len(ids))
	return ids, nil
}

// SimilaritySearch returns up to TopK chunks ordered by cosine distance
// to the query embedding.
func (s *Store) SimilaritySearch(ctx context.Context, query string) ([]core.Chunk, error) {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrQueryFailed, err)
	}

	sql := `
	SELECT id, content, metadata
	FROM chunks
	WHERE embedding IS NOT NULL
	ORDER BY embedding <=> $1
	LIMIT $2
	`

	rows, err := s.pool.Query(ctx, sql, pgv.NewVector(vector), s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrQueryFailed, err)
	}
	defer rows.Close()

	var chunks []core.Chunk
	for rows.Next() {
		var (
			id       string
			content  string
			metadata map[string]any
		)
		if err := rows.Scan(&id, &content, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %w", index.ErrQueryFailed, err)
		}
		chunks = append(chunks, index.FromDocumentParts(id, content, metadata))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", index.ErrQueryFailed, err)
	}

	return chunks, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
