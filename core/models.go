package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic chunk ID from text content using
// BLAKE2b hashing. Identical content produces identical IDs, so repeated
// bulk loads of an unchanged source converge on the same chunk IDs instead
// of minting fresh identities for the same text.
func IDFromContent(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 32 hex chars
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Fragment is a unit of raw extracted text before chunking. Fragments are
// ephemeral: they are owned by the ingestion call that produced them and
// are never persisted.
type Fragment struct {
	Text   string
	Source Provenance
	Extra  map[string]string // extractor-specific fields, carried through untouched
}

// Provenance describes where a fragment came from.
type Provenance struct {
	FileName  string
	SourceURI string
	Processor string // identifier of the extraction engine that produced the fragment
}

// Metadata carries the provenance and conversation scope of a chunk.
// The named fields are the ones the retrieval path depends on; Extra holds
// extractor-specific fields that ride along without interpretation.
//
// ConversationID is empty for bulk-loaded documents and stamped exactly
// once for uploads; a chunk belongs to one conversation for its lifetime.
type Metadata struct {
	ConversationID   string
	UploadTime       time.Time // zero for bulk-loaded documents
	FileType         string
	OriginalFilename string
	TempFilename     string
	SourceURI        string
	Processor        string
	Extra            map[string]string
}

// Chunk is the persisted retrieval unit: a bounded, non-empty span of text
// with provenance metadata. A chunk's ID is immutable once assigned and
// unique across the index. The index is append-only: chunks are never
// updated in place, only added.
type Chunk struct {
	ID       string
	Text     string
	Metadata Metadata
}
