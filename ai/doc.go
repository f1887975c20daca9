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


// Package ai provides the embedding abstraction used by index backends.
//
// The ingestion and retrieval core never computes embeddings itself; the
// index adapters that need vectors (badger, pgvector) depend on the
// Embedder interface defined here. Two implementation sub-packages exist:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles with deterministic behavior
//
// Public constructors in ai/openai return the ai.Embedder interface to
// enforce abstraction; mock constructors return concrete types so tests
// can inject behavior and make assertions.
package ai
