package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index/mock"
)

func TestNewWriter_RequiresIndex(t *testing.T) {
	_, err := NewWriter(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestWrite_EmptyBatchIsNoOp(t *testing.T) {
	idx := mock.NewMockIndex()
	writer, err := NewWriter(idx)
	require.NoError(t, err)

	written, err := writer.Write(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Zero(t, idx.AddCalls(), "empty input should not reach the index")
}

func TestWrite_SubmitsOneBatch(t *testing.T) {
	idx := mock.NewMockIndex()
	writer, err := NewWriter(idx)
	require.NoError(t, err)

	chunks := []core.Chunk{
		{ID: "c1", Text: "one"},
		{ID: "c2", Text: "two"},
	}
	written, err := writer.Write(context.Background(), chunks)
	require.NoError(t, err)

	assert.Equal(t, 2, written)
	assert.Equal(t, 1, idx.AddCalls())
	assert.Len(t, idx.Chunks(), 2)
}

func TestWrite_IndexFailureAbortsBatch(t *testing.T) {
	idx := mock.NewMockIndex()
	idx.AddFunc = func(ctx context.Context, chunks []core.Chunk) ([]string, error) {
		return nil, errors.New("index unavailable")
	}
	writer, err := NewWriter(idx)
	require.NoError(t, err)

	written, err := writer.Write(context.Background(), []core.Chunk{{ID: "c1", Text: "one"}})
	assert.ErrorIs(t, err, ErrStoreWrite)
	assert.Zero(t, written)
}
