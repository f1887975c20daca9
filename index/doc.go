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


// Package index defines the boundary to the external vector-similarity
// store. The ingestion and retrieval core consumes the Index interface as
// a black box: it assumes only that Add persists chunks and that
// SimilaritySearch returns chunks related to the query text, possibly
// none. Ranking, nearest-neighbor mechanics, and embedding computation
// all live behind this boundary.
//
// Three backends ship in sub-packages:
//
//   - index/badger: local persistent store with a brute-force cosine scan
//   - index/qdrant: remote Qdrant collection via langchaingo
//   - index/pgvector: PostgreSQL with the pgvector extension
//
// Constructors return the index.Index interface so backends stay
// swappable.
package index
