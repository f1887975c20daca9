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


// Package docbase is a document knowledge base: it ingests files into
// an embedding index and answers conversational queries over them.
package docbase

import (
	"log/slog"

	"github.com/violetlabs/docbase/ai"
	"github.com/violetlabs/docbase/ai/openai"
	"github.com/violetlabs/docbase/extract"
	"github.com/violetlabs/docbase/index"
	"github.com/violetlabs/docbase/index/badger"
	"github.com/violetlabs/docbase/ingestion"
	"github.com/violetlabs/docbase/retrieval"
	"github.com/violetlabs/docbase/uploads"
)

// Database wires the index, the extraction stack, and the upload store
// into one handle the ingestion pipeline and searcher are built from.
type Database struct {
	index       index.Index
	resolver    *ingestion.Resolver
	extractor   extract.Extractor
	splitter    *ingestion.Splitter
	writer      *ingestion.Writer
	uploadStore *uploads.Store
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig   *ai.Config
	index      index.Index
	splitter   *ingestion.Splitter
	extensions []string
	uploadDir  string
}

// WithAIConfig sets the embedding provider configuration used when the
// default local index is built.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithIndex replaces the default local index with an externally built
// one (remote Qdrant, pgvector). The path argument to Open is ignored.
func WithIndex(idx index.Index) DatabaseOption {
	return func(o *databaseOptions) {
		o.index = idx
	}
}

// WithSplitter replaces the default token splitter.
func WithSplitter(splitter *ingestion.Splitter) DatabaseOption {
	return func(o *databaseOptions) {
		o.splitter = splitter
	}
}

// WithAllowedExtensions overrides the bulk-load extension allow-list.
func WithAllowedExtensions(extensions []string) DatabaseOption {
	return func(o *databaseOptions) {
		o.extensions = extensions
	}
}

// WithUploadDir overrides the upload staging directory.
func WithUploadDir(dir string) DatabaseOption {
	return func(o *databaseOptions) {
		o.uploadDir = dir
	}
}

// Open builds a Database backed by a local index at filePath, unless
// WithIndex supplies one.
func Open(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	idx := options.index
	if idx == nil {
		embedder, err := openai.NewEmbedder(options.aiConfig)
		if err != nil {
			return nil, err
		}
		idx, err = badger.New(filePath, embedder)
		if err != nil {
			return nil, err
		}
	}

	resolver, err := ingestion.NewResolver(ingestion.WithExtensions(options.extensions))
	if err != nil {
		idx.Close()
		return nil, err
	}

	extractor, err := extract.NewLoader()
	if err != nil {
		idx.Close()
		return nil, err
	}

	splitter := options.splitter
	if splitter == nil {
		splitter, err = ingestion.NewSplitter()
		if err != nil {
			idx.Close()
			return nil, err
		}
	}

	writer, err := ingestion.NewWriter(idx)
	if err != nil {
		idx.Close()
		return nil, err
	}

	var uploadOpts []uploads.Option
	if options.uploadDir != "" {
		uploadOpts = append(uploadOpts, uploads.WithDir(options.uploadDir))
	}
	uploadStore, err := uploads.New(uploadOpts...)
	if err != nil {
		idx.Close()
		return nil, err
	}

	return &Database{
		index:       idx,
		resolver:    resolver,
		extractor:   extractor,
		splitter:    splitter,
		writer:      writer,
		uploadStore: uploadStore,
		logger:      slog.Default(),
	}, nil
}

// Close releases the index.
func (db *Database) Close() error {
	if err := db.index.Close(); err != nil {
		db.logger.Error("error closing index", "err", err)
		return err
	}
	return nil
}

// Index returns the underlying index.
func (db *Database) Index() index.Index {
	return db.index
}

// UploadStore returns the upload staging store.
func (db *Database) UploadStore() *uploads.Store {
	return db.uploadStore
}

// Resolver returns the source resolver used for bulk loads.
func (db *Database) Resolver() *ingestion.Resolver {
	return db.resolver
}

// NewPipeline builds an ingestion pipeline on this database.
func (db *Database) NewPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.resolver, db.extractor, db.splitter, db.writer, db.uploadStore, opts...)
}

// NewSearcher builds a retrieval searcher on this database.
func (db *Database) NewSearcher(opts ...retrieval.Option) (*retrieval.Searcher, error) {
	return retrieval.NewSearcher(db.index, opts...)
}
