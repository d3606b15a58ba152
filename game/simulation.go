// Package game wires the field and the robot into a simulation that presentation
// adapters drive through Reset, Step and Snapshot.
package game

import (
	"time"

	"github.com/beka-birhanu/vinom-biolab/game/field"
	"github.com/beka-birhanu/vinom-biolab/game/robot"
	"github.com/google/uuid"
)

// Simulation owns one field and the robot walking it. It is not safe for
// concurrent use; callers serialize access.
type Simulation struct {
	mission   field.Mission
	field     *field.Field
	robot     *robot.Robot
	now       robot.Clock
	steps     int       // successful steps since the last reset
	startedAt time.Time // time of the last reset
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithClock sets the clock used for journal timestamps.
func WithClock(now robot.Clock) Option {
	return func(s *Simulation) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMission replaces the bio lab layout.
func WithMission(m field.Mission) Option {
	return func(s *Simulation) {
		s.mission = m
	}
}

// New creates a simulation and initializes it.
func New(options ...Option) *Simulation {
	s := &Simulation{
		mission: field.BioLab(),
		now:     time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset rebuilds the field from the mission layout and places a fresh robot.
func (s *Simulation) Reset() State {
	f := field.New()
	f.ApplyMission(s.mission)

	s.field = f
	s.robot = robot.New(f, s.now)
	s.steps = 0
	s.startedAt = s.now()
	return s.Snapshot()
}

// Step advances the robot once. ok is false when the robot did not move.
func (s *Simulation) Step() (state State, ok bool) {
	ok = s.robot.Step()
	if ok {
		s.steps++
	}
	return s.Snapshot(), ok
}

// Complete reports the mission completion predicate.
func (s *Simulation) Complete() bool { return s.robot.IsComplete() }

// Finished reports whether further steps are no-ops.
func (s *Simulation) Finished() bool {
	return s.robot.IsComplete() || s.robot.Exhausted()
}

// Journal returns the robot journal.
func (s *Simulation) Journal() []robot.Entry { return s.robot.Journal() }

// Field exposes the field for renderers.
func (s *Simulation) Field() *field.Field { return s.field }

// Snapshot captures the current state.
func (s *Simulation) Snapshot() State {
	pos := s.robot.Position()
	current, _ := s.field.TypeAt(pos.X, pos.Y)

	rows := s.field.Rows()
	grid := make([][]CellState, len(rows))
	for y, row := range rows {
		grid[y] = make([]CellState, len(row))
		for x, c := range row {
			grid[y][x] = newCellState(c)
		}
	}

	return State{
		Width:           field.Width,
		Height:          field.Height,
		Map:             grid,
		RobotX:          pos.X,
		RobotY:          pos.Y,
		CurrentCellType: current.String(),
		History:         robot.FormatJournal(s.robot.Journal()),
		IsComplete:      s.robot.IsComplete(),
		Steps:           s.steps,
	}
}

// Report summarizes the current run under the given session id.
func (s *Simulation) Report(id uuid.UUID) Report {
	return Report{
		ID:         id,
		Mission:    s.mission.Name,
		StartedAt:  s.startedAt,
		FinishedAt: s.now(),
		Steps:      s.steps,
		Complete:   s.robot.IsComplete(),
		Processed:  s.field.Count(field.Processed),
		Journal:    robot.FormatJournal(s.robot.Journal()),
	}
}
