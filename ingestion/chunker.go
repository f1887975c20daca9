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
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Splitter defaults. Sizes are in tokens, bounds in characters.
const (
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 50
	DefaultMinChunkChars = 10
	DefaultMaxChunkChars = 10000

	encodingName = "cl100k_base"
)

// chunk boundaries snap back to the last of these when one exists
const separators = ".?!\n"

// Encoder tokenizes text for the Splitter. The default is tiktoken's
// cl100k_base encoding.
type Encoder interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenEncoder struct {
	enc *tiktoken.Tiktoken
}

func (t tiktokenEncoder) Encode(text string) []int   { return t.enc.Encode(text, nil, nil) }
func (t tiktokenEncoder) Decode(tokens []int) string { return t.enc.Decode(tokens) }

// Splitter cuts fragment text into token-bounded chunks. Adjacent
// chunks from one fragment overlap by up to ChunkOverlap tokens, and
// cut points prefer sentence or line boundaries over mid-word splits.
type Splitter struct {
	encoder   Encoder
	chunkSize int
	overlap   int
	minChars  int
	maxChars  int
	logger    *slog.Logger
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter) error

// WithChunkSize sets the target chunk size in tokens.
func WithChunkSize(size int) SplitterOption {
	return func(s *Splitter) error {
		if size > 0 {
			s.chunkSize = size
		}
		return nil
	}
}

// WithChunkOverlap sets the token overlap between adjacent chunks.
func WithChunkOverlap(overlap int) SplitterOption {
	return func(s *Splitter) error {
		if overlap >= 0 {
			s.overlap = overlap
		}
		return nil
	}
}

// WithMinChunkChars sets the minimum chunk length in characters.
// Shorter pieces are dropped unless they are the fragment's only chunk.
func WithMinChunkChars(n int) SplitterOption {
	return func(s *Splitter) error {
		if n >= 0 {
			s.minChars = n
		}
		return nil
	}
}

// WithMaxChunkChars sets the hard upper bound on chunk length in
// characters.
func WithMaxChunkChars(n int) SplitterOption {
	return func(s *Splitter) error {
		if n > 0 {
			s.maxChars = n
		}
		return nil
	}
}

// WithEncoder replaces the tokenizer.
func WithEncoder(encoder Encoder) SplitterOption {
	return func(s *Splitter) error {
		if encoder != nil {
			s.encoder = encoder
		}
		return nil
	}
}

// WithSplitterLogger sets a custom logger.
// Default is slog.Default().
func WithSplitterLogger(logger *slog.Logger) SplitterOption {
	return func(s *Splitter) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSplitter creates a Splitter. Loading the default encoding may
// fetch the vocabulary on first use.
func NewSplitter(opts ...SplitterOption) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		minChars:  DefaultMinChunkChars,
		maxChars:  DefaultMaxChunkChars,
		logger:    slog.Default().With("component", "splitter"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.encoder == nil {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			return nil, err
		}
		s.encoder = tiktokenEncoder{enc: enc}
	}
	return s, nil
}

// Split cuts one fragment's text into chunks. Whitespace-only input
// yields nothing; non-empty input yields at least one chunk even when
// it is shorter than the minimum.
func (s *Splitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	tokens := s.encoder.Encode(text)
	var chunks []string

	start := 0
	for start < len(tokens) {
		end := start + s.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		piece := s.encoder.Decode(tokens[start:end])
		consumed := end - start

		if end < len(tokens) {
			if cut := lastSeparator(piece); cut > 0 {
				piece = piece[:cut]
				if n := len(s.encoder.Encode(piece)); n > 0 {
					consumed = n
				}
			}
		}

		piece = strings.TrimSpace(truncateChars(piece, s.maxChars))
		if utf8.RuneCountInString(piece) >= s.minChars {
			chunks = append(chunks, piece)
		}

		if end >= len(tokens) {
			break
		}
		advance := consumed - s.overlap
		if advance < 1 {
			advance = consumed
		}
		if advance < 1 {
			advance = 1
		}
		start += advance
	}

	// A short fragment still carries signal; keep it whole.
	if len(chunks) == 0 {
		chunks = []string{truncateChars(trimmed, s.maxChars)}
	}

	s.logger.Debug("split fragment", "tokens", len(tokens), "chunks", len(chunks))
	return chunks
}

// lastSeparator returns the byte offset just past the last sentence or
// line separator, or 0 when the text has none.
func lastSeparator(text string) int {
	if idx := strings.LastIndexAny(text, separators); idx >= 0 {
		return idx + 1
	}
	return 0
}

// truncateChars bounds text to max runes without cutting a rune in half.
func truncateChars(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}
