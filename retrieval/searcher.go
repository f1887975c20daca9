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


package retrieval

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index"
)

// maxSearchResults bounds how many chunks a search renders.
const maxSearchResults = 3

// Fixed auxiliary query sets. Broad operations query common words
// instead of the user's phrase so recall covers whole documents.
var (
	broadSearchQueries = []string{"document", "information", "the"}
	listQueries        = []string{"the", "and", "information"}
	contentsQueries    = []string{"document", "information", "content", "the"}
)

// listFallbackQuery is tried when every list query fails.
const listFallbackQuery = "content"

// Searcher orchestrates retrieval over an index. All operations return
// text; index failures never escape them.
type Searcher struct {
	index  index.Index
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithPoolSize sets the worker pool size for concurrent auxiliary
// queries. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a Searcher.
func NewSearcher(idx index.Index, opts ...Option) (*Searcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		index:  idx,
		pool:   pool,
		logger: slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}
	return s, nil
}

// Search finds chunks relevant to a query, scoped to a conversation
// when an ID is given. A blank conversation ID searches all documents;
// that asymmetry is deliberate and logged.
func (s *Searcher) Search(ctx context.Context, query, conversationID string) string {
	s.logger.Info("searching documents", "query", query, "conversation_id", conversationID)

	if strings.TrimSpace(query) == "" {
		return "Please provide a search query."
	}
	hasConversation := strings.TrimSpace(conversationID) != ""
	if !hasConversation {
		s.logger.Warn("no conversation ID provided for document search, searching all documents")
	}

	queries := []string{query}
	intent := Classify(query)
	if intent == IntentBroad {
		s.logger.Info("broad content request detected, using comprehensive search")
		queries = broadSearchQueries
	}

	results, errs := s.runQueries(ctx, queries)
	for _, err := range errs {
		if err != nil {
			s.logger.Error("error searching documents", "error", err)
			return "Error searching documents: " + err.Error()
		}
	}

	merged := mergeFirstWins(results)
	s.logger.Info("merged search results", "intent", intent.String(), "total", len(merged))

	if hasConversation {
		merged = filterByConversation(merged, conversationID)
	}
	if len(merged) > maxSearchResults {
		merged = merged[:maxSearchResults]
	}

	if len(merged) == 0 {
		if hasConversation {
			return "I couldn't find any relevant information in your uploaded documents for this query. " +
				"Make sure you've uploaded documents and they contain information related to your question."
		}
		return "No relevant documents found for this query."
	}

	return formatSearchResults(query, merged)
}

// ListDocuments lists the distinct files indexed for a conversation.
// The conversation ID is required here, unlike Search.
func (s *Searcher) ListDocuments(ctx context.Context, conversationID string) string {
	if strings.TrimSpace(conversationID) == "" {
		return "No conversation ID provided."
	}

	s.logger.Info("listing documents", "conversation_id", conversationID)

	results, errs := s.runQueries(ctx, listQueries)
	allFailed := true
	for i, err := range errs {
		if err != nil {
			s.logger.Warn("error getting documents with generic search", "query", listQueries[i], "error", err)
			results[i] = nil
		} else {
			allFailed = false
		}
	}
	if allFailed {
		fallback, err := s.index.SimilaritySearch(ctx, listFallbackQuery)
		if err != nil {
			s.logger.Error("error listing documents", "error", err)
			return "Error listing documents: " + err.Error()
		}
		results = [][]core.Chunk{fallback}
	}

	merged := filterByConversation(mergeFirstWins(results), conversationID)
	if len(merged) == 0 {
		return "No documents have been uploaded and processed in this conversation yet. " +
			"Upload a document using the upload button above to get started!"
	}

	return formatDocumentList(merged)
}

// DocumentContents reassembles the indexed content of every document
// in a conversation. Coverage is best effort: only chunks the fixed
// broad queries surface are included.
func (s *Searcher) DocumentContents(ctx context.Context, conversationID string) string {
	if strings.TrimSpace(conversationID) == "" {
		return "No conversation ID provided."
	}

	s.logger.Info("getting document contents", "conversation_id", conversationID)

	results, errs := s.runQueries(ctx, contentsQueries)
	for _, err := range errs {
		if err != nil {
			s.logger.Error("error getting document contents", "error", err)
			return "Error getting document contents: " + err.Error()
		}
	}

	merged := filterByConversation(mergeFirstWins(results), conversationID)
	s.logger.Info("found document chunks for conversation", "count", len(merged))

	if len(merged) == 0 {
		return "No documents found in this conversation. Please upload a document first."
	}

	return formatDocumentContents(merged)
}

// runQueries issues the queries concurrently. Result slot i always
// holds query i's chunks, so merge order equals issue order no matter
// which worker finishes first.
func (s *Searcher) runQueries(ctx context.Context, queries []string) ([][]core.Chunk, []error) {
	results := make([][]core.Chunk, len(queries))
	errs := make([]error, len(queries))
	var wg sync.WaitGroup

	for i, query := range queries {
		wg.Add(1)
		if submitErr := s.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = s.index.SimilaritySearch(ctx, query)
		}); submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	return results, errs
}

// mergeFirstWins concatenates result lists keeping the first occurrence
// of each chunk ID. The retained text and metadata are those of the
// query that discovered the chunk first.
func mergeFirstWins(results [][]core.Chunk) []core.Chunk {
	var merged []core.Chunk
	seen := make(map[string]bool)
	for _, chunks := range results {
		for _, chunk := range chunks {
			if seen[chunk.ID] {
				continue
			}
			seen[chunk.ID] = true
			merged = append(merged, chunk)
		}
	}
	return merged
}

func filterByConversation(chunks []core.Chunk, conversationID string) []core.Chunk {
	var filtered []core.Chunk
	for _, chunk := range chunks {
		if chunk.Metadata.ConversationID == conversationID {
			filtered = append(filtered, chunk)
		}
	}
	return filtered
}

// Release releases the worker pool. The searcher should not be used
// after calling Release.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}
