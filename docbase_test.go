package docbase

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/violetlabs/docbase/index/mock"
	"github.com/violetlabs/docbase/ingestion"
)

// runeEncoder makes splitting deterministic and offline.
type runeEncoder struct{}

func (runeEncoder) Encode(text string) []int {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens
}

func (runeEncoder) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, tok := range tokens {
		runes[i] = rune(tok)
	}
	return string(runes)
}

func openTestDatabase(t *testing.T) (*Database, *mock.MockIndex) {
	t.Helper()

	splitter, err := ingestion.NewSplitter(
		ingestion.WithEncoder(runeEncoder{}),
		ingestion.WithMinChunkChars(1))
	require.NoError(t, err)

	idx := mock.NewMockIndex()
	db, err := Open("",
		WithIndex(idx),
		WithSplitter(splitter),
		WithUploadDir(filepath.Join(t.TempDir(), "uploads")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, idx
}

func TestOpen_WithInjectedIndex(t *testing.T) {
	db, idx := openTestDatabase(t)

	assert.Same(t, db.Index(), idx)
	assert.NotNil(t, db.UploadStore())
	assert.NotNil(t, db.Resolver())
}

func TestDatabase_UploadThenSearch(t *testing.T) {
	db, _ := openTestDatabase(t)

	pipeline, err := db.NewPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	searcher, err := db.NewSearcher()
	require.NoError(t, err)
	defer searcher.Release()

	tempName, err := db.UploadStore().Save("plan.txt",
		strings.NewReader("the project ships in october"))
	require.NoError(t, err)

	result := pipeline.IngestUpload(context.Background(), "conv-1", "plan.txt", tempName, "text/plain")
	require.Contains(t, result, "Successfully processed file 'plan.txt'")

	found := searcher.Search(context.Background(), "when does the project ship", "conv-1")
	assert.Contains(t, found, "**plan.txt**")
	assert.Contains(t, found, "the project ships in october")

	listing := searcher.ListDocuments(context.Background(), "conv-1")
	assert.Contains(t, listing, "1. plan.txt")
}

func TestDatabase_CloseClosesIndex(t *testing.T) {
	db, idx := openTestDatabase(t)

	closed := false
	idx.CloseFunc = func() error {
		closed = true
		return nil
	}

	require.NoError(t, db.Close())
	assert.True(t, closed)
}
