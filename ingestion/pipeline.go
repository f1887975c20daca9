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
	"maps"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/violetlabs/docbase/core"
	"github.com/violetlabs/docbase/extract"
	"github.com/violetlabs/docbase/uploads"
)

// Pipeline orchestrates document ingestion: resolve, extract, split,
// tag, write. Bulk loads extract files concurrently on a worker pool;
// the final store write is always a single ordered batch.
type Pipeline struct {
	resolver    *Resolver
	extractor   extract.Extractor
	splitter    *Splitter
	tagger      *Tagger
	writer      *Writer
	uploadStore *uploads.Store
	pool        *ants.Pool
	logger      *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) PipelineOption {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	resolver *Resolver,
	extractor extract.Extractor,
	splitter *Splitter,
	writer *Writer,
	uploadStore *uploads.Store,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if resolver == nil {
		return nil, ErrResolverRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if writer == nil {
		return nil, ErrWriterRequired
	}
	if uploadStore == nil {
		return nil, ErrUploadStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		resolver:    resolver,
		extractor:   extractor,
		splitter:    splitter,
		writer:      writer,
		uploadStore: uploadStore,
		pool:        pool,
		logger:      slog.Default().With("component", "ingestion-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	tagger, err := NewTagger(WithTaggerLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}
	p.tagger = tagger

	return p, nil
}

// LoadBulk ingests every document a source descriptor resolves to.
// Files that fail extraction are skipped and logged; a store failure
// aborts the whole batch.
func (p *Pipeline) LoadBulk(ctx context.Context, descriptor string) error {
	files, err := p.resolver.Resolve(descriptor)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	// Indexed result slots keep batch order equal to resolve order
	// regardless of which worker finishes first.
	results := make([][]core.Chunk, len(files))
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		if submitErr := p.pool.Submit(func() {
			defer wg.Done()
			chunks, fileErr := p.processFile(ctx, file)
			if fileErr != nil {
				p.logger.Warn("skipping document", "file", file.Name, "error", fileErr)
				return
			}
			results[i] = chunks
		}); submitErr != nil {
			wg.Done()
			p.logger.Warn("skipping document", "file", file.Name, "error", submitErr)
		}
	}
	wg.Wait()

	var batch []core.Chunk
	for _, chunks := range results {
		batch = append(batch, chunks...)
	}

	written, err := p.writer.Write(ctx, batch)
	if err != nil {
		return err
	}

	p.logger.Info("bulk load complete",
		"descriptor", descriptor,
		"files", len(files),
		"chunks", written)
	return nil
}

// processFile extracts and splits one document into provenance-tagged
// chunks.
func (p *Pipeline) processFile(ctx context.Context, file SourceFile) ([]core.Chunk, error) {
	r, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fragments, err := p.extractor.Extract(ctx, r, file.Name)
	if err != nil {
		return nil, err
	}

	var chunks []core.Chunk
	for _, frag := range fragments {
		fragChunks := p.fragmentChunks(frag)
		p.tagger.TagProvenance(fragChunks, frag.Source, file.URI)
		chunks = append(chunks, fragChunks...)
	}
	return chunks, nil
}

// IngestUpload processes one staged upload end to end and returns a
// human-readable result. It never returns an error; every failure is a
// descriptive sentence. The staged file is removed on every exit path
// once it has been found.
func (p *Pipeline) IngestUpload(ctx context.Context, conversationID, originalFilename, tempFilename, fileType string) string {
	p.logger.Info("processing uploaded file",
		"conversation_id", conversationID,
		"original_filename", originalFilename,
		"temp_filename", tempFilename,
		"file_type", fileType)

	if strings.TrimSpace(conversationID) == "" {
		p.logger.Error("no conversation ID provided")
		return "Error: No conversation ID provided"
	}
	if strings.TrimSpace(tempFilename) == "" {
		p.logger.Error("no temp filename provided")
		return "Error: No temp filename provided"
	}

	path, err := p.uploadStore.Resolve(tempFilename)
	if err != nil {
		p.logger.Error("uploaded file not found", "temp_filename", tempFilename, "error", err)
		return "Error: Could not find the uploaded file. Please try uploading it again."
	}
	defer p.uploadStore.Remove(tempFilename)

	f, err := os.Open(path)
	if err != nil {
		p.logger.Error("failed to open uploaded file", "path", path, "error", err)
		return "Error processing the file: " + err.Error()
	}
	defer f.Close()

	fragments, err := p.extractor.Extract(ctx, f, originalFilename)
	if err != nil {
		p.logger.Error("failed to extract uploaded file", "original_filename", originalFilename, "error", err)
		return "Error processing the file: " + err.Error()
	}

	var chunks []core.Chunk
	for _, frag := range fragments {
		chunks = append(chunks, p.fragmentChunks(frag)...)
	}
	if len(chunks) == 0 {
		p.logger.Warn("no content extracted from upload", "original_filename", originalFilename)
		return "The file was processed, but no content could be extracted. Please try with a different file."
	}

	p.tagger.StampUpload(chunks, UploadStamp{
		ConversationID:   conversationID,
		FileType:         fileType,
		OriginalFilename: originalFilename,
		TempFilename:     tempFilename,
	})
	if len(fragments) > 0 {
		p.tagger.TagProvenance(chunks, fragments[0].Source, path)
	}

	written, err := p.writer.Write(ctx, chunks)
	if err != nil {
		p.logger.Error("failed to store uploaded file", "original_filename", originalFilename, "error", err)
		return "Error processing the file: " + err.Error()
	}

	return fmt.Sprintf("Successfully processed file '%s' and added %d chunks to the knowledge base. You can now ask questions about this document.",
		originalFilename, written)
}

// fragmentChunks splits one fragment into bare chunks carrying the
// extractor's extra metadata.
func (p *Pipeline) fragmentChunks(frag core.Fragment) []core.Chunk {
	texts := p.splitter.Split(frag.Text)
	chunks := make([]core.Chunk, 0, len(texts))
	for _, text := range texts {
		chunks = append(chunks, core.Chunk{
			Text:     text,
			Metadata: core.Metadata{Extra: maps.Clone(frag.Extra)},
		})
	}
	return chunks
}

// Release releases the worker pool. The pipeline should not be used
// after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
