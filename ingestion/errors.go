package ingestion

import "errors"

var (
	// ErrSourceNotFound indicates the source descriptor does not resolve
	// to a readable location.
	ErrSourceNotFound = errors.New("document source not found")

	// ErrStoreWrite indicates the index rejected a chunk batch. The
	// whole batch is aborted.
	ErrStoreWrite = errors.New("store write failed")

	// Constructor argument errors.
	ErrIndexRequired       = errors.New("index is required")
	ErrExtractorRequired   = errors.New("extractor is required")
	ErrResolverRequired    = errors.New("resolver is required")
	ErrSplitterRequired    = errors.New("splitter is required")
	ErrWriterRequired      = errors.New("writer is required")
	ErrUploadStoreRequired = errors.New("upload store is required")
)
