package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/beka-birhanu/vinom-biolab/game/robot"
	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/google/uuid"
)

const (
	defaultIdleTTL = time.Hour

	// RecentRunsKey is the sorted queue key of the recent runs index.
	RecentRunsKey = "biolab:runs:recent"
	// MaxRecentRuns caps the recent runs index.
	MaxRecentRuns = 100

	archiveTimeout = 2 * time.Second
)

var (
	ErrSessionNotFound    = i.ErrSessionNotFound
	ErrMissingArchive     = errors.New("run archive is required")
	ErrMissingRecentIndex = errors.New("recent runs index is required")
	ErrMissingLogger      = errors.New("logger is required")
	ErrInvalidDelay       = errors.New("auto-run delay must be positive")
)

var _ i.SessionManager = (*SessionManager)(nil)

// session is one simulation plus the bookkeeping the manager needs.
type session struct {
	sim      *game.Simulation
	lastSeen time.Time
	archived bool // report of the current run already written
	sync.Mutex
}

// SessionManager keeps simulations in memory, keyed by session ID.
type SessionManager struct {
	sessions   map[uuid.UUID]*session
	archive    i.RunArchive
	recentRuns i.SortedQueue
	logger     i.Logger
	idleTTL    time.Duration
	now        func() time.Time
	simOptions []game.Option
	sync.RWMutex
}

// Config carries the dependencies of a SessionManager.
type Config struct {
	Archive    i.RunArchive     // Where finished runs are reported.
	RecentRuns i.SortedQueue    // Index of finished runs by finish time.
	Logger     i.Logger         // Component logger.
	IdleTTL    time.Duration    // Idle time before a session is swept; defaults to an hour.
	Clock      func() time.Time // Defaults to time.Now.
	SimOptions []game.Option    // Options applied to every new simulation.
}

// NewSessionManager creates a SessionManager from c.
func NewSessionManager(c *Config) (*SessionManager, error) {
	switch {
	case c.Archive == nil:
		return nil, ErrMissingArchive
	case c.RecentRuns == nil:
		return nil, ErrMissingRecentIndex
	case c.Logger == nil:
		return nil, ErrMissingLogger
	}

	sm := &SessionManager{
		sessions:   make(map[uuid.UUID]*session),
		archive:    c.Archive,
		recentRuns: c.RecentRuns,
		logger:     c.Logger,
		idleTTL:    c.IdleTTL,
		now:        c.Clock,
		simOptions: c.SimOptions,
	}
	if sm.idleTTL <= 0 {
		sm.idleTTL = defaultIdleTTL
	}
	if sm.now == nil {
		sm.now = time.Now
	}
	return sm, nil
}

// NewSession initializes a fresh simulation under a new ID.
func (sm *SessionManager) NewSession(ctx context.Context) (uuid.UUID, game.State, error) {
	sim := game.New(sm.simOptions...)
	state := sim.Snapshot()

	sm.Lock()
	id := uuid.New()
	for {
		if _, ok := sm.sessions[id]; !ok {
			break
		}
		id = uuid.New()
	}
	sm.sessions[id] = &session{sim: sim, lastSeen: sm.now()}
	sm.Unlock()

	sm.logger.Info(fmt.Sprintf("started session %s", id))
	return id, state, nil
}

// State returns the current snapshot of a session.
func (sm *SessionManager) State(id uuid.UUID) (game.State, error) {
	s, err := sm.session(id)
	if err != nil {
		return game.State{}, err
	}

	s.Lock()
	defer s.Unlock()
	s.lastSeen = sm.now()
	return s.sim.Snapshot(), nil
}

// Step advances a session once. The first time the run finishes its report is
// archived; archive failures are logged and never fail the step.
func (sm *SessionManager) Step(ctx context.Context, id uuid.UUID) (game.State, bool, error) {
	s, err := sm.session(id)
	if err != nil {
		return game.State{}, false, err
	}

	s.Lock()
	s.lastSeen = sm.now()
	state, ok := s.sim.Step()
	var report *game.Report
	if s.sim.Finished() && !s.archived {
		s.archived = true
		r := s.sim.Report(id)
		report = &r
	}
	s.Unlock()

	if report != nil {
		sm.archiveRun(ctx, report)
	}
	return state, ok, nil
}

// Reset rebuilds a session from the mission layout and starts a new run.
func (sm *SessionManager) Reset(ctx context.Context, id uuid.UUID) (game.State, error) {
	s, err := sm.session(id)
	if err != nil {
		return game.State{}, err
	}

	s.Lock()
	defer s.Unlock()
	s.lastSeen = sm.now()
	s.archived = false
	state := s.sim.Reset()

	sm.logger.Info(fmt.Sprintf("reset session %s", id))
	return state, nil
}

// AutoRun steps a session every delay until the robot stops moving, emit returns
// an error or ctx is done. The final unsuccessful step is emitted too.
func (sm *SessionManager) AutoRun(ctx context.Context, id uuid.UUID, delay time.Duration, emit func(game.State, bool) error) error {
	if delay <= 0 {
		return ErrInvalidDelay
	}
	if _, err := sm.session(id); err != nil {
		return err
	}

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			state, ok, err := sm.Step(ctx, id)
			if err != nil {
				return err
			}
			if err := emit(state, ok); err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
	}
}

// Journal returns the journal entries of a session.
func (sm *SessionManager) Journal(id uuid.UUID) ([]robot.Entry, error) {
	s, err := sm.session(id)
	if err != nil {
		return nil, err
	}

	s.Lock()
	defer s.Unlock()
	return s.sim.Journal(), nil
}

// Render draws the session field.
func (sm *SessionManager) Render(id uuid.UUID) (string, error) {
	s, err := sm.session(id)
	if err != nil {
		return "", err
	}

	s.Lock()
	defer s.Unlock()
	return s.sim.Field().String(), nil
}

// Close discards a session.
func (sm *SessionManager) Close(id uuid.UUID) error {
	sm.Lock()
	defer sm.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	sm.logger.Info(fmt.Sprintf("closed session %s", id))
	return nil
}

// RecentRuns returns up to n archived reports, newest first. Index entries whose
// report is gone from the archive are skipped.
func (sm *SessionManager) RecentRuns(ctx context.Context, n int64) ([]*game.Report, error) {
	ids, err := sm.recentRuns.Recent(ctx, RecentRunsKey, n)
	if err != nil {
		return nil, fmt.Errorf("reading recent runs: %w", err)
	}

	reports := make([]*game.Report, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			sm.logger.Warning(fmt.Sprintf("skipping malformed run id %q in recent runs", raw))
			continue
		}
		report, err := sm.archive.ByID(ctx, id)
		if errors.Is(err, i.ErrRunNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading run %s: %w", id, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Run returns one archived report.
func (sm *SessionManager) Run(ctx context.Context, id uuid.UUID) (*game.Report, error) {
	return sm.archive.ByID(ctx, id)
}

// Sweep evicts sessions idle longer than the idle TTL and returns how many went.
func (sm *SessionManager) Sweep() int {
	cutoff := sm.now().Add(-sm.idleTTL)

	sm.Lock()
	defer sm.Unlock()
	evicted := 0
	for id, s := range sm.sessions {
		s.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.Unlock()
		if idle {
			delete(sm.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		sm.logger.Info(fmt.Sprintf("evicted %d idle sessions", evicted))
	}
	return evicted
}

// StartJanitor sweeps idle sessions every interval until ctx is done.
func (sm *SessionManager) StartJanitor(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sm.Sweep()
			}
		}
	}()
}

// Len returns the number of live sessions.
func (sm *SessionManager) Len() int {
	sm.RLock()
	defer sm.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) session(id uuid.UUID) (*session, error) {
	sm.RLock()
	defer sm.RUnlock()
	s, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (sm *SessionManager) archiveRun(ctx context.Context, report *game.Report) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := sm.archive.Save(ctx, report); err != nil {
		sm.logger.Error(fmt.Sprintf("archiving run %s: %v", report.ID, err))
		return
	}

	score := float64(report.FinishedAt.UnixNano())
	if err := sm.recentRuns.Enqueue(ctx, RecentRunsKey, score, report.ID.String()); err != nil {
		sm.logger.Error(fmt.Sprintf("indexing run %s: %v", report.ID, err))
		return
	}
	if err := sm.recentRuns.Trim(ctx, RecentRunsKey, MaxRecentRuns); err != nil {
		sm.logger.Warning(fmt.Sprintf("trimming recent runs: %v", err))
	}

	sm.logger.Info(fmt.Sprintf("archived run %s (complete=%t, steps=%d)", report.ID, report.Complete, report.Steps))
}
