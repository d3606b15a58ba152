package i

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/beka-birhanu/vinom-biolab/game/robot"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for IDs with no live session.
var ErrSessionNotFound = errors.New("session not found")

// SessionManager owns running simulations and drives them on behalf of adapters.
type SessionManager interface {
	// NewSession initializes a simulation and returns its ID and first snapshot.
	NewSession(ctx context.Context) (uuid.UUID, game.State, error)

	// State returns the current snapshot of a session.
	State(id uuid.UUID) (game.State, error)

	// Step advances a session once; ok is false when the robot did not move.
	Step(ctx context.Context, id uuid.UUID) (state game.State, ok bool, err error)

	// Reset rebuilds a session from the mission layout.
	Reset(ctx context.Context, id uuid.UUID) (game.State, error)

	// AutoRun steps a session every delay and hands each result to emit until the
	// robot stops, emit fails or ctx is done.
	AutoRun(ctx context.Context, id uuid.UUID, delay time.Duration, emit func(game.State, bool) error) error

	// Journal returns the session journal entries.
	Journal(id uuid.UUID) ([]robot.Entry, error)

	// Render draws the session field as text.
	Render(id uuid.UUID) (string, error)

	// Close discards a session.
	Close(id uuid.UUID) error

	// RecentRuns returns up to n archived reports, newest first.
	RecentRuns(ctx context.Context, n int64) ([]*game.Report, error)

	// Run returns one archived report.
	Run(ctx context.Context, id uuid.UUID) (*game.Report, error)
}
