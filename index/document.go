package index

import (
	"time"

	"github.com/tmc/langchaingo/schema"
	"github.com/violetlabs/docbase/core"
)

// Metadata keys used in the external store's document payloads. Remote
// backends persist the typed core.Metadata record under these flat keys.
const (
	KeyID               = "id"
	KeyConversationID   = "conversation_id"
	KeyUploadTime       = "upload_time"
	KeyFileType         = "file_type"
	KeyOriginalFilename = "original_filename"
	KeyTempFilename     = "temp_filename"
	KeySourceURI        = "source_uri"
	KeyProcessor        = "processor"
)

// ToDocument converts a chunk to a langchaingo document for remote stores.
// Upload time is rendered as RFC 3339 (ISO-8601); empty fields are omitted
// so payloads stay minimal.
func ToDocument(chunk core.Chunk) schema.Document {
	md := map[string]any{KeyID: chunk.ID}

	set := func(key, value string) {
		if value != "" {
			md[key] = value
		}
	}
	set(KeyConversationID, chunk.Metadata.ConversationID)
	set(KeyFileType, chunk.Metadata.FileType)
	set(KeyOriginalFilename, chunk.Metadata.OriginalFilename)
	set(KeyTempFilename, chunk.Metadata.TempFilename)
	set(KeySourceURI, chunk.Metadata.SourceURI)
	set(KeyProcessor, chunk.Metadata.Processor)
	if !chunk.Metadata.UploadTime.IsZero() {
		md[KeyUploadTime] = chunk.Metadata.UploadTime.UTC().Format(time.RFC3339Nano)
	}
	for k, v := range chunk.Metadata.Extra {
		if _, reserved := md[k]; !reserved {
			md[k] = v
		}
	}

	return schema.Document{
		PageContent: chunk.Text,
		Metadata:    md,
	}
}

// FromDocument converts a langchaingo document back to a chunk. Unknown
// metadata keys land in Extra; a malformed upload_time is dropped rather
// than failing the whole result.
func FromDocument(doc schema.Document) core.Chunk {
	chunk := core.Chunk{Text: doc.PageContent}

	for key, raw := range doc.Metadata {
		value, ok := raw.(string)
		if !ok {
			continue
		}
		switch key {
		case KeyID:
			chunk.ID = value
		case KeyConversationID:
			chunk.Metadata.ConversationID = value
		case KeyUploadTime:
			if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
				chunk.Metadata.UploadTime = t
			}
		case KeyFileType:
			chunk.Metadata.FileType = value
		case KeyOriginalFilename:
			chunk.Metadata.OriginalFilename = value
		case KeyTempFilename:
			chunk.Metadata.TempFilename = value
		case KeySourceURI:
			chunk.Metadata.SourceURI = value
		case KeyProcessor:
			chunk.Metadata.Processor = value
		default:
			if chunk.Metadata.Extra == nil {
				chunk.Metadata.Extra = make(map[string]string)
			}
			chunk.Metadata.Extra[key] = value
		}
	}

	return chunk
}

// FromDocumentParts builds a chunk from a store row that keeps the ID
// and content outside the metadata payload. The explicit ID wins over
// any "id" key inside the metadata.
func FromDocumentParts(id, content string, metadata map[string]any) core.Chunk {
	chunk := FromDocument(schema.Document{PageContent: content, Metadata: metadata})
	if id != "" {
		chunk.ID = id
	}
	return chunk
}
