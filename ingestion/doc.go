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


// Package ingestion turns document sources into indexed chunks.
//
// The pipeline runs source resolution, extraction, token-based
// splitting, metadata tagging, and a batched store write. Bulk loads
// fan extraction out across a worker pool; uploaded files run through
// the same stages one file at a time with conversation metadata
// stamped on every chunk.
package ingestion
