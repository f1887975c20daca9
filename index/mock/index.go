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


// Package mock provides a configurable in-memory index.Index for tests.
package mock

import (
	"context"
	"sync"

	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index"
)

// MockIndex implements index.Index with configurable function fields.
// When a function field is nil, the corresponding call falls back to a
// simple in-memory default: Add appends, SimilaritySearch returns
// everything.
type MockIndex struct {
	AddFunc              func(ctx context.Context, chunks []core.Chunk) ([]string, error)
	SimilaritySearchFunc func(ctx context.Context, query string) ([]core.Chunk, error)
	CloseFunc            func() error

	mu       sync.Mutex
	chunks   []core.Chunk
	queries  []string
	addCalls int
}

var _ index.Index = (*MockIndex)(nil)

// NewMockIndex creates a mock index with default behaviors.
func NewMockIndex() *MockIndex {
	return &MockIndex{}
}

// Add stores the chunks or delegates to AddFunc.
func (m *MockIndex) Add(ctx context.Context, chunks []core.Chunk) ([]string, error) {
	m.mu.Lock()
	m.addCalls++
	m.mu.Unlock()

	if m.AddFunc != nil {
		return m.AddFunc(ctx, chunks)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		m.chunks = append(m.chunks, chunk)
		ids[i] = chunk.ID
	}
	return ids, nil
}

// SimilaritySearch records the query and returns all stored chunks, or
// delegates to SimilaritySearchFunc.
func (m *MockIndex) SimilaritySearch(ctx context.Context, query string) ([]core.Chunk, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SimilaritySearchFunc != nil {
		return m.SimilaritySearchFunc(ctx, query)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Chunk, len(m.chunks))
	copy(out, m.chunks)
	return out, nil
}

// Close delegates to CloseFunc or does nothing.
func (m *MockIndex) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Chunks returns a copy of everything added through the default Add.
func (m *MockIndex) Chunks() []core.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Chunk, len(m.chunks))
	copy(out, m.chunks)
	return out
}

// Queries returns every query passed to SimilaritySearch, in call order.
func (m *MockIndex) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

// AddCalls returns how many times Add was invoked.
func (m *MockIndex) AddCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addCalls
}

// Reset clears stored chunks and recorded calls.
func (m *MockIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	m.queries = nil
	m.addCalls = 0
}
