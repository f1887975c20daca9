package ingestion

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/extract"
	"github.com/violetlabs/docbase/index/mock"
	"github.com/violetlabs/docbase/uploads"
)

// mockExtractor lets tests inject extraction behavior per file.
type mockExtractor struct {
	ExtractFunc func(ctx context.Context, r io.Reader, filename string) ([]core.Fragment, error)
}

func (m *mockExtractor) Extract(ctx context.Context, r io.Reader, filename string) ([]core.Fragment, error) {
	return m.ExtractFunc(ctx, r, filename)
}

type pipelineFixture struct {
	pipeline *Pipeline
	index    *mock.MockIndex
	uploads  *uploads.Store
}

func newPipelineFixture(t *testing.T, resolver *Resolver, extractor extract.Extractor) *pipelineFixture {
	t.Helper()

	if resolver == nil {
		var err error
		resolver, err = NewResolver()
		require.NoError(t, err)
	}
	if extractor == nil {
		loader, err := extract.NewLoader()
		require.NoError(t, err)
		extractor = loader
	}

	splitter, err := NewSplitter(
		WithEncoder(runeEncoder{}),
		WithChunkSize(50),
		WithChunkOverlap(5),
		WithMinChunkChars(1))
	require.NoError(t, err)

	idx := mock.NewMockIndex()
	writer, err := NewWriter(idx)
	require.NoError(t, err)

	uploadStore, err := uploads.New(uploads.WithDir(filepath.Join(t.TempDir(), "staging")))
	require.NoError(t, err)

	pipeline, err := NewPipeline(resolver, extractor, splitter, writer, uploadStore)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &pipelineFixture{pipeline: pipeline, index: idx, uploads: uploadStore}
}

func TestLoadBulk(t *testing.T) {
	fsys := fstest.MapFS{
		"one.txt": {Data: []byte("the first document body")},
		"two.txt": {Data: []byte("the second document body")},
	}
	resolver, err := NewResolver(WithFS("docs", fsys))
	require.NoError(t, err)

	fx := newPipelineFixture(t, resolver, nil)

	require.NoError(t, fx.pipeline.LoadBulk(context.Background(), "fs:docs"))

	chunks := fx.index.Chunks()
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, fx.index.AddCalls(), "bulk load should write one batch")

	for _, c := range chunks {
		assert.Equal(t, core.IDFromContent(c.Text), c.ID)
		assert.Contains(t, c.Metadata.SourceURI, "fs:docs/")
		assert.Equal(t, "text", c.Metadata.Processor)
		assert.NotEmpty(t, c.Metadata.OriginalFilename)
	}
}

func TestLoadBulk_SourceNotFound(t *testing.T) {
	fx := newPipelineFixture(t, nil, nil)

	err := fx.pipeline.LoadBulk(context.Background(), "/no/such/dir")
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Zero(t, fx.index.AddCalls())
}

func TestLoadBulk_EmptySourceIsNoOp(t *testing.T) {
	resolver, err := NewResolver(WithFS("empty", fstest.MapFS{}))
	require.NoError(t, err)

	fx := newPipelineFixture(t, resolver, nil)

	require.NoError(t, fx.pipeline.LoadBulk(context.Background(), "fs:empty"))
	assert.Zero(t, fx.index.AddCalls())
}

func TestLoadBulk_FileFailureIsIsolated(t *testing.T) {
	fsys := fstest.MapFS{
		"good.txt": {Data: []byte("a healthy document")},
		"bad.txt":  {Data: []byte("a corrupt document")},
	}
	resolver, err := NewResolver(WithFS("docs", fsys))
	require.NoError(t, err)

	extractor := &mockExtractor{
		ExtractFunc: func(ctx context.Context, r io.Reader, filename string) ([]core.Fragment, error) {
			if filename == "bad.txt" {
				return nil, errors.New("parse failure")
			}
			data, _ := io.ReadAll(r)
			return []core.Fragment{{
				Text:   string(data),
				Source: core.Provenance{FileName: filename, Processor: "text"},
			}}, nil
		},
	}

	fx := newPipelineFixture(t, resolver, extractor)

	require.NoError(t, fx.pipeline.LoadBulk(context.Background(), "fs:docs"))

	chunks := fx.index.Chunks()
	require.Len(t, chunks, 1)
	assert.Equal(t, "a healthy document", chunks[0].Text)
}

func TestLoadBulk_StoreFailureAborts(t *testing.T) {
	fsys := fstest.MapFS{"doc.txt": {Data: []byte("some content")}}
	resolver, err := NewResolver(WithFS("docs", fsys))
	require.NoError(t, err)

	fx := newPipelineFixture(t, resolver, nil)
	fx.index.AddFunc = func(ctx context.Context, chunks []core.Chunk) ([]string, error) {
		return nil, errors.New("index down")
	}

	err = fx.pipeline.LoadBulk(context.Background(), "fs:docs")
	assert.ErrorIs(t, err, ErrStoreWrite)
}

func TestIngestUpload_MissingArguments(t *testing.T) {
	fx := newPipelineFixture(t, nil, nil)

	t.Run("no conversation id", func(t *testing.T) {
		result := fx.pipeline.IngestUpload(context.Background(), "", "a.txt", "tmp-a.txt", "text/plain")
		assert.Equal(t, "Error: No conversation ID provided", result)
	})

	t.Run("no temp filename", func(t *testing.T) {
		result := fx.pipeline.IngestUpload(context.Background(), "conv-1", "a.txt", "  ", "text/plain")
		assert.Equal(t, "Error: No temp filename provided", result)
	})
}

func TestIngestUpload_MissingFile(t *testing.T) {
	fx := newPipelineFixture(t, nil, nil)

	result := fx.pipeline.IngestUpload(context.Background(), "conv-1", "a.txt", "never-staged.txt", "text/plain")
	assert.Equal(t, "Error: Could not find the uploaded file. Please try uploading it again.", result)
}

func TestIngestUpload_Success(t *testing.T) {
	fx := newPipelineFixture(t, nil, nil)

	tempName, err := fx.uploads.Save("notes.txt", strings.NewReader("the uploaded document body"))
	require.NoError(t, err)

	result := fx.pipeline.IngestUpload(context.Background(), "conv-1", "notes.txt", tempName, "text/plain")
	assert.Contains(t, result, "Successfully processed file 'notes.txt'")
	assert.Contains(t, result, "added 1 chunks")

	chunks := fx.index.Chunks()
	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, "conv-1", c.Metadata.ConversationID)
	assert.Equal(t, "text/plain", c.Metadata.FileType)
	assert.Equal(t, "notes.txt", c.Metadata.OriginalFilename)
	assert.Equal(t, tempName, c.Metadata.TempFilename)
	assert.False(t, c.Metadata.UploadTime.IsZero())
	assert.NotEmpty(t, c.ID)

	// Staged file is gone after processing.
	_, err = fx.uploads.Resolve(tempName)
	assert.ErrorIs(t, err, uploads.ErrNotFound)
}

func TestIngestUpload_StoreFailureStillRemovesTempFile(t *testing.T) {
	fx := newPipelineFixture(t, nil, nil)
	fx.index.AddFunc = func(ctx context.Context, chunks []core.Chunk) ([]string, error) {
		return nil, errors.New("index down")
	}

	tempName, err := fx.uploads.Save("notes.txt", strings.NewReader("content"))
	require.NoError(t, err)

	result := fx.pipeline.IngestUpload(context.Background(), "conv-1", "notes.txt", tempName, "text/plain")
	assert.Contains(t, result, "Error processing the file:")

	_, err = fx.uploads.Resolve(tempName)
	assert.ErrorIs(t, err, uploads.ErrNotFound)
}

func TestIngestUpload_NoExtractableContent(t *testing.T) {
	fx := newPipelineFixture(t, nil, nil)

	tempName, err := fx.uploads.Save("blank.txt", strings.NewReader("   \n  "))
	require.NoError(t, err)

	result := fx.pipeline.IngestUpload(context.Background(), "conv-1", "blank.txt", tempName, "text/plain")
	assert.Equal(t, "The file was processed, but no content could be extracted. Please try with a different file.", result)

	_, err = fx.uploads.Resolve(tempName)
	assert.ErrorIs(t, err, uploads.ErrNotFound)
}
