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
	"context"
	"fmt"
	"log/slog"

	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/index"
)

// idLogSample bounds how many chunk IDs a single write logs.
const idLogSample = 20

// Writer submits chunk batches to the index.
type Writer struct {
	index  index.Index
	logger *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer) error

// WithWriterLogger sets a custom logger.
// Default is slog.Default().
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWriter creates a Writer.
func NewWriter(idx index.Index, opts ...WriterOption) (*Writer, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	w := &Writer{
		index:  idx,
		logger: slog.Default().With("component", "store-writer"),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Write submits the chunks as one batch and returns how many were
// written. Empty input is a no-op. Any index failure aborts the whole
// batch and wraps ErrStoreWrite.
func (w *Writer) Write(ctx context.Context, chunks []core.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	ids, err := w.index.Add(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	sample := ids
	if len(sample) > idLogSample {
		sample = sample[:idLogSample]
	}
	w.logger.Info("wrote chunk batch", "count", len(ids), "ids", sample)

	return len(ids), nil
}
