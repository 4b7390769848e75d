package ports

import (
	"context"

	"popsynth/domain/microdata"
)

// SourcePort retrieves raw microdata records from a remote feed.
//
// Implementations must fail loudly: a network failure, malformed response or
// credential rejection returns a typed error, never a silent empty table.
type SourcePort interface {
	// Fetch retrieves the configured fields as an untyped table, one row per
	// sampled individual, with the feed's auxiliary index column dropped.
	Fetch(ctx context.Context) (*microdata.RawTable, error)
}
