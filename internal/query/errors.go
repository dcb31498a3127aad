package query

import "errors"

// Error taxonomy for the engine. Every error is terminal for the call
// that raised it: no retry, no partial results.
var (
	// ErrInvalidQuery marks a malformed request, detected before any
	// document I/O.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnsupportedStrategy marks a request for an unregistered
	// traversal strategy. No fallback is substituted.
	ErrUnsupportedStrategy = errors.New("unsupported strategy")

	// ErrDocumentUnreadable marks a source that cannot be opened or read.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrMalformedDocument marks content that is not well-formed XML.
	// It is never recovered into a partial result.
	ErrMalformedDocument = errors.New("malformed document")
)
