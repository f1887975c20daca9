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


package badger

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/violetlabs/docbase/core"
)

// record is the stored form of a chunk: the chunk itself plus the
// embedding vector the similarity scan runs against.
type record struct {
	Chunk  core.Chunk
	Vector []float32
}

var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// marshalRecord serializes a record to bytes.
func marshalRecord(rec record) []byte {
	size := core.ChunkMUS.Size(rec.Chunk) + vectorMUS.Size(rec.Vector)
	bs := make([]byte, size)
	n := core.ChunkMUS.Marshal(rec.Chunk, bs)
	vectorMUS.Marshal(rec.Vector, bs[n:])
	return bs
}

// unmarshalRecord deserializes a record from bytes.
func unmarshalRecord(bs []byte) (record, error) {
	var rec record
	chunk, n, err := core.ChunkMUS.Unmarshal(bs)
	if err != nil {
		return rec, err
	}
	vector, _, err := vectorMUS.Unmarshal(bs[n:])
	if err != nil {
		return rec, err
	}
	rec.Chunk = chunk
	rec.Vector = vector
	return rec, nil
}
