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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
)

// MUS serializers for chunks persisted by storage backends. Field order is
// part of the stored format and must not change between releases.

var extraMUS = ord.NewMapSer[string, string](ord.String, ord.String)

// ChunkMUS serializes Chunk values in the MUS format.
var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(c.ID, bs)
	n += ord.String.Marshal(c.Text, bs[n:])
	n += MetadataMUS.Marshal(c.Metadata, bs[n:])
	return
}

func (chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	c.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	c.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (chunkMUS) Size(c Chunk) (n int) {
	n = ord.String.Size(c.ID)
	n += ord.String.Size(c.Text)
	n += MetadataMUS.Size(c.Metadata)
	return
}

// MetadataMUS serializes Metadata values in the MUS format.
// UploadTime is stored as an RFC 3339 string; the zero time is stored as
// the empty string.
var MetadataMUS = metadataMUS{}

type metadataMUS struct{}

func (metadataMUS) Marshal(m Metadata, bs []byte) (n int) {
	n = ord.String.Marshal(m.ConversationID, bs)
	n += ord.String.Marshal(marshalTime(m.UploadTime), bs[n:])
	n += ord.String.Marshal(m.FileType, bs[n:])
	n += ord.String.Marshal(m.OriginalFilename, bs[n:])
	n += ord.String.Marshal(m.TempFilename, bs[n:])
	n += ord.String.Marshal(m.SourceURI, bs[n:])
	n += ord.String.Marshal(m.Processor, bs[n:])
	n += extraMUS.Marshal(m.Extra, bs[n:])
	return
}

func (metadataMUS) Unmarshal(bs []byte) (m Metadata, n int, err error) {
	var n1 int
	fields := []*string{
		&m.ConversationID, nil, &m.FileType, &m.OriginalFilename,
		&m.TempFilename, &m.SourceURI, &m.Processor,
	}
	var uploadTime string
	fields[1] = &uploadTime

	for _, field := range fields {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	m.UploadTime, err = unmarshalTime(uploadTime)
	if err != nil {
		return
	}

	m.Extra, n1, err = extraMUS.Unmarshal(bs[n:])
	n += n1
	if len(m.Extra) == 0 {
		m.Extra = nil
	}
	return
}

func (metadataMUS) Size(m Metadata) (n int) {
	n = ord.String.Size(m.ConversationID)
	n += ord.String.Size(marshalTime(m.UploadTime))
	n += ord.String.Size(m.FileType)
	n += ord.String.Size(m.OriginalFilename)
	n += ord.String.Size(m.TempFilename)
	n += ord.String.Size(m.SourceURI)
	n += ord.String.Size(m.Processor)
	n += extraMUS.Size(m.Extra)
	return
}

func marshalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func unmarshalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
