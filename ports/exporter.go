package ports

import (
	"context"

	"popsynth/domain/microdata"
)

// ExporterPort serializes the augmented table to a durable file.
//
// Errors (unwritable path, disk full) are surfaced, not retried.
type ExporterPort interface {
	Export(ctx context.Context, people []microdata.AugmentedPerson, path string) error
}
