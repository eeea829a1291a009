package phpipam

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrInvalidKeySpec is returned by BuildIndex when the key specification is
// neither a field name, a field tuple, nor a derivation function.
var ErrInvalidKeySpec = errors.New("key spec must be a field name, a field tuple, or a derivation function")

// APIError is an HTTP response with a non-success status, surfaced by the
// higher-level helpers (Login, GetCatalog, Search, ExpandIDs). Raw verb
// calls never produce it; callers of Call and the verb wrappers check
// Response.StatusCode themselves.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("phpipam: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// PartialExpansionError reports an ID expansion that failed mid-sequence.
// It carries the records fetched before the failure so the caller can
// salvage prior work.
type PartialExpansionError struct {
	// Partial holds the records accumulated before the failing ID.
	Partial []Record

	// FailedID is the ID whose fetch failed.
	FailedID string

	// Response is the raw failing response. Nil when the transport failed
	// before any response was received.
	Response *Response

	cause error
}

func (e *PartialExpansionError) Error() string {
	return fmt.Sprintf("phpipam: expansion failed at ID %s after %d records: %v",
		e.FailedID, len(e.Partial), e.cause)
}

func (e *PartialExpansionError) Unwrap() error { return e.cause }

// ItemCreationError wraps any failure during the create step of a Touch
// probe. Failures after the new item's ID was obtained are not wrapped; by
// then the item exists and the caller may want to clean it up.
type ItemCreationError struct {
	cause error
}

func (e *ItemCreationError) Error() string {
	return fmt.Sprintf("phpipam: item creation failed: %v", e.cause)
}

func (e *ItemCreationError) Unwrap() error { return e.cause }
