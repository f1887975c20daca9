package retrieval

import "errors"

var (
	// ErrInvalidQuery indicates a blank or missing search query.
	ErrInvalidQuery = errors.New("search query is required")

	// ErrMissingConversationID indicates an operation that requires a
	// conversation scope was called without one.
	ErrMissingConversationID = errors.New("conversation ID is required")

	// ErrIndexRequired indicates the searcher was built without an index.
	ErrIndexRequired = errors.New("index is required")
)
