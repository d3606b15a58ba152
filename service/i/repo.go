package i

import (
	"context"
	"errors"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/google/uuid"
)

// ErrRunNotFound is returned by RunArchive implementations for unknown IDs.
var ErrRunNotFound = errors.New("run report not found")

// RunArchive stores reports of finished runs.
type RunArchive interface {
	// Save inserts or replaces the report with the same ID.
	Save(ctx context.Context, report *game.Report) error

	// ByID retrieves a report by its session ID.
	// Returns ErrRunNotFound if there is none.
	ByID(ctx context.Context, id uuid.UUID) (*game.Report, error)
}
