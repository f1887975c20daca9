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


// Package retrieval answers conversational queries over indexed
// documents.
//
// Every operation returns human-readable text, never structured data
// and never an error: index failures are caught at the operation
// boundary and rendered as a descriptive sentence. Broad queries fan
// out into fixed auxiliary searches to trade precision for recall.
package retrieval
