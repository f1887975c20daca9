package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/violetlabs/docbase/ai/mock"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestNewWithBackend_NilEmbedder(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewWithBackend(backend, nil)
	assert.ErrorIs(t, err, index.ErrEmbedderRequired)
}

func TestAdd_EmptyBatch(t *testing.T) {
	store, backend, err := NewMemoryStore(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer backend.Close()

	ids, err := store.Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAdd_RejectsInvalidChunk(t *testing.T) {
	store, backend, err := NewMemoryStore(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer backend.Close()

	_, err = store.Add(context.Background(), []core.Chunk{{ID: "", Text: "text"}})
	assert.ErrorIs(t, err, core.ErrMissingID)
}

func TestAdd_EmbedderFailureWrapsSentinel(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}

	store, backend, err := NewMemoryStore(embedder)
	require.NoError(t, err)
	defer backend.Close()

	_, err = store.Add(context.Background(), []core.Chunk{{ID: "a", Text: "text"}})
	assert.ErrorIs(t, err, index.ErrAddFailed)
}

func TestSimilaritySearch_NoRecords(t *testing.T) {
	store, backend, err := NewMemoryStore(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer backend.Close()

	chunks, err := store.SimilaritySearch(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSimilaritySearch_RoundTripsMetadata(t *testing.T) {
	store, backend, err := NewMemoryStore(mock.NewMockEmbedder())
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	uploaded := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	chunk := core.Chunk{
		ID:   "c-1",
		Text: "The hummingbird hovered beside a vibrant purple flower.",
		Metadata: core.Metadata{
			ConversationID:   "conv-1",
			UploadTime:       uploaded,
			OriginalFilename: "birds.txt",
			Processor:        "loaders",
		},
	}

	ids, err := store.Add(ctx, []core.Chunk{chunk})
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1"}, ids)

	// The mock embedder is deterministic, so the exact text ranks first.
	results, err := store.SimilaritySearch(ctx, chunk.Text)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, chunk, results[0])
}

func TestSimilaritySearch_TopKBound(t *testing.T) {
	store, backend, err := NewMemoryStore(mock.NewMockEmbedder(), WithTopK(2))
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	chunks := []core.Chunk{
		{ID: "a", Text: "alpha text"},
		{ID: "b", Text: "beta text"},
		{ID: "c", Text: "gamma text"},
		{ID: "d", Text: "delta text"},
	}
	_, err = store.Add(ctx, chunks)
	require.NoError(t, err)

	results, err := store.SimilaritySearch(ctx, "text")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 2)
}

func TestSimilaritySearch_MinSimilarityFilters(t *testing.T) {
	store, backend, err := NewMemoryStore(mock.NewMockEmbedder(), WithMinSimilarity(1.01))
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = store.Add(ctx, []core.Chunk{{ID: "a", Text: "alpha text"}})
	require.NoError(t, err)

	// Cosine similarity can never exceed 1, so everything is filtered.
	results, err := store.SimilaritySearch(ctx, "alpha text")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.5, 0.5, 0.1}
		assert.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-6)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("zero vector", func(t *testing.T) {
		assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
	})
}

func TestRecordSerializationRoundTrip(t *testing.T) {
	rec := record{
		Chunk:  core.Chunk{ID: "r-1", Text: "stored text", Metadata: core.Metadata{Processor: "loaders"}},
		Vector: []float32{0.25, -0.5, 0.75},
	}

	got, err := unmarshalRecord(marshalRecord(rec))
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}
