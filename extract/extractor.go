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


package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/violetlabs/docbase/core"
)

// Extractor converts one document into plain-text fragments. Most
// formats yield a single fragment; page- or row-oriented formats may
// yield several, in document order.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, filename string) ([]core.Fragment, error)
}

// Loader is the default Extractor built on langchaingo document loaders.
type Loader struct {
	logger *slog.Logger
}

var _ Extractor = (*Loader)(nil)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	l := &Loader{
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Extract selects a loader by file extension and returns the extracted
// fragments. Files in a format without a loader fail with
// ErrUnsupportedFormat.
func (l *Loader) Extract(ctx context.Context, r io.Reader, filename string) ([]core.Fragment, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		docs      []schema.Document
		processor string
		err       error
	)

	switch ext {
	case ".txt", ".md":
		processor = "text"
		docs, err = documentloaders.NewText(r).Load(ctx)
	case ".html", ".htm":
		processor = "html"
		docs, err = documentloaders.NewHTML(r).Load(ctx)
	case ".csv":
		processor = "csv"
		docs, err = documentloaders.NewCSV(r).Load(ctx)
	case ".pdf":
		processor = "pdf"
		// The PDF loader needs random access, so the file is buffered.
		var data []byte
		data, err = io.ReadAll(r)
		if err == nil {
			docs, err = documentloaders.NewPDF(bytes.NewReader(data), int64(len(data))).Load(ctx)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	if err != nil {
		l.logger.Error("extraction failed", "file", filename, "processor", processor, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrExtractFailed, filename, err)
	}

	fragments := make([]core.Fragment, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.PageContent) == "" {
			continue
		}
		fragments = append(fragments, core.Fragment{
			Text: doc.PageContent,
			Source: core.Provenance{
				FileName:  filepath.Base(filename),
				Processor: processor,
			},
			Extra: stringifyMetadata(doc.Metadata),
		})
	}

	l.logger.Debug("extracted document",
		"file", filename,
		"processor", processor,
		"fragments", len(fragments))

	return fragments, nil
}

// stringifyMetadata keeps only string-valued loader metadata. Loaders
// attach things like page numbers and row indexes here.
func stringifyMetadata(md map[string]any) map[string]string {
	var out map[string]string
	for k, v := range md {
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		if out == nil {
			out = make(map[string]string, len(md))
		}
		out[k] = s
	}
	return out
}
