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


package index

import "errors"

var (
	// ErrQueryFailed wraps any similarity-search failure from a backend.
	ErrQueryFailed = errors.New("index query failed")

	// ErrAddFailed wraps any write failure from a backend.
	ErrAddFailed = errors.New("index add failed")

	// ErrClosed indicates the backend has been closed.
	ErrClosed = errors.New("index is closed")

	// ErrEmbedderRequired is returned when a backend is constructed
	// without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
