package census

import (
	"time"
)

// Query describes one request to the microdata feed: which fields to pull,
// from where, and with which credential. The credential travels as a query
// parameter because that is the feed's contract; it comes from configuration,
// never from source.
type Query struct {
	BaseURL string
	APIKey  string
	Fields  []string
	Timeout time.Duration
}

// DefaultTimeout bounds the fetch when the query does not set one. The feed
// has no cancellation semantics of its own, so the client enforces this.
const DefaultTimeout = 60 * time.Second
