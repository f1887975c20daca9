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


package ingestion

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/violetlabs/docbase/core"
)

// UnknownSource marks chunks whose origin could not be determined.
const UnknownSource = "unknown"

// UploadStamp is the conversation metadata applied to every chunk of an
// uploaded file.
type UploadStamp struct {
	ConversationID   string
	FileType         string
	OriginalFilename string
	TempFilename     string
	UploadTime       time.Time
}

// Tagger assigns identity and provenance metadata to chunks.
//
// Provenance tagging is insert-if-absent so extractor-provided values
// survive; upload stamping always overwrites, since the upload request
// is the authority on its own conversation.
type Tagger struct {
	logger *slog.Logger
}

// TaggerOption configures a Tagger.
type TaggerOption func(*Tagger) error

// WithTaggerLogger sets a custom logger.
// Default is slog.Default().
func WithTaggerLogger(logger *slog.Logger) TaggerOption {
	return func(t *Tagger) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTagger creates a Tagger.
func NewTagger(opts ...TaggerOption) (*Tagger, error) {
	t := &Tagger{
		logger: slog.Default().With("component", "tagger"),
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// TagProvenance fills in source metadata and identity where missing:
// SourceURI, OriginalFilename, Processor from the given provenance, and
// a content-hash ID. An empty source URI resolves to UnknownSource and
// is logged, not raised.
func (t *Tagger) TagProvenance(chunks []core.Chunk, source core.Provenance, sourceURI string) {
	if sourceURI == "" {
		t.logger.Warn("chunk source has no URI", "file", source.FileName)
		sourceURI = UnknownSource
	}

	for i := range chunks {
		c := &chunks[i]
		if c.ID == "" {
			c.ID = core.IDFromContent(c.Text)
		}
		if c.Metadata.SourceURI == "" {
			c.Metadata.SourceURI = sourceURI
		}
		if c.Metadata.OriginalFilename == "" {
			c.Metadata.OriginalFilename = source.FileName
		}
		if c.Metadata.Processor == "" {
			c.Metadata.Processor = source.Processor
		}
	}
}

// StampUpload overwrites conversation metadata on every chunk and
// assigns random IDs to chunks that have none. A zero UploadTime means
// now.
func (t *Tagger) StampUpload(chunks []core.Chunk, stamp UploadStamp) {
	uploadTime := stamp.UploadTime
	if uploadTime.IsZero() {
		uploadTime = time.Now().UTC()
	}

	for i := range chunks {
		c := &chunks[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.Metadata.ConversationID = stamp.ConversationID
		c.Metadata.UploadTime = uploadTime
		c.Metadata.FileType = stamp.FileType
		c.Metadata.OriginalFilename = stamp.OriginalFilename
		c.Metadata.TempFilename = stamp.TempFilename
	}
}
